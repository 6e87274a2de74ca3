package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harrisonrobin/aledger/pkg/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGenerator(context.Background(), "", "gemini-test", srv.URL+"/",
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return g
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), "", "gemini-test", "")
	assert.ErrorIs(t, err, extract.ErrNotConfigured)
}

func TestModelName(t *testing.T) {
	assert.Equal(t, "models/gemini-2.0-flash", NewGeneratorWithService(nil, "gemini-2.0-flash").Model())
	assert.Equal(t, "models/x", NewGeneratorWithService(nil, "models/x").Model())
}

func TestGenerateReturnsCandidateText(t *testing.T) {
	var body map[string]any
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)

		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"[{\"date\":\"2024-05-10\","},{"text":"\"item\":\"午餐\",\"amount\":100,\"category\":\"食\"}]"}]}}]}`)
	})

	text, err := g.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, `[{"date":"2024-05-10","item":"午餐","amount":100,"category":"食"}]`, text)

	cfg, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig missing: %v", body)
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	assert.Contains(t, string(mustJSON(t, body["contents"])), "prompt text")

	var schema struct {
		Type  string `json:"type"`
		Items struct {
			Type       string `json:"type"`
			Properties map[string]struct {
				Type string `json:"type"`
			} `json:"properties"`
			Required []string `json:"required"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(mustJSON(t, cfg["responseSchema"]), &schema))
	assert.Equal(t, "ARRAY", schema.Type)
	assert.Equal(t, "OBJECT", schema.Items.Type)
	assert.ElementsMatch(t, []string{"date", "item", "amount", "category"}, schema.Items.Required)
	assert.Equal(t, "NUMBER", schema.Items.Properties["amount"].Type)
	assert.Equal(t, "STRING", schema.Items.Properties["date"].Type)
	assert.Equal(t, "STRING", schema.Items.Properties["item"].Type)
	assert.Equal(t, "STRING", schema.Items.Properties["category"].Type)
}

func TestGenerateRateLimited(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	})

	_, err := g.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrRateLimited)

	var te *extract.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusTooManyRequests, te.StatusCode)
	assert.Contains(t, te.Reason, "exhausted")
	assert.Contains(t, extract.UserMessage(err), "wait")
}

func TestGenerateServerError(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	})

	_, err := g.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.NotErrorIs(t, err, extract.ErrRateLimited)

	var te *extract.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)
}

func TestGenerateNoCandidates(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	})

	text, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGenerateBlockedPrompt(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"promptFeedback":{"blockReason":"SAFETY"}}`)
	})

	_, err := g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, extract.ErrEmptyResponse)
}

func TestGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g, err := NewGenerator(context.Background(), "", "gemini-test", url+"/", option.WithHTTPClient(http.DefaultClient))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "p")
	var te *extract.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
