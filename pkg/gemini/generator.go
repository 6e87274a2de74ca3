package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harrisonrobin/aledger/pkg/extract"
	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const jsonMimeType = "application/json"

// Generator calls the Gemini generateContent endpoint.
type Generator struct {
	srv   *generativelanguage.Service
	model string
}

// NewGenerator creates a Generator for model using apiKey. endpoint may be
// empty for the public endpoint. Extra options are appended last.
func NewGenerator(ctx context.Context, apiKey, model, endpoint string, extra ...option.ClientOption) (*Generator, error) {
	if apiKey == "" && len(extra) == 0 {
		return nil, extract.ErrNotConfigured
	}

	var opts []option.ClientOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	opts = append(opts, extra...)

	srv, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create generative language client: %w", err)
	}
	return NewGeneratorWithService(srv, model), nil
}

// NewGeneratorWithService wraps an existing service.
func NewGeneratorWithService(srv *generativelanguage.Service, model string) *Generator {
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return &Generator{srv: srv, model: model}
}

// Model returns the resource name requests are sent to.
func (g *Generator) Model() string {
	return g.model
}

// Generate sends prompt as a single user turn and returns the concatenated
// text of the first candidate.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			ResponseMimeType: jsonMimeType,
			ResponseSchema:   entriesSchema(),
		},
	}

	resp, err := g.srv.Models.GenerateContent(g.model, req).Context(ctx).Do()
	if err != nil {
		return "", translateError(err)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", extract.ErrEmptyResponse, resp.PromptFeedback.BlockReason)
		}
		return "", nil
	}

	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}

// entriesSchema constrains the answer to an array of expense objects with
// every field required.
func entriesSchema() *generativelanguage.Schema {
	return &generativelanguage.Schema{
		Type: "ARRAY",
		Items: &generativelanguage.Schema{
			Type: "OBJECT",
			Properties: map[string]generativelanguage.Schema{
				"date":     {Type: "STRING", Description: "格式為 YYYY-MM-DD"},
				"item":     {Type: "STRING", Description: "消費項目名稱"},
				"amount":   {Type: "NUMBER", Description: "金額（數字）"},
				"category": {Type: "STRING", Description: "分類，必須是：食、衣、住、行、育、樂 之一"},
			},
			Required: []string{"date", "item", "amount", "category"},
		},
	}
}

func translateError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &extract.TransportError{StatusCode: gerr.Code, Reason: gerr.Message, Err: err}
	}
	return &extract.TransportError{Err: err}
}
