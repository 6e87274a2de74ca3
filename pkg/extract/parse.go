package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/aledger/pkg/model"
	"github.com/shopspring/decimal"
)

// StripCodeFence extracts the body of the first markdown code fence (``` or
// ```json) in the model's answer, dropping any prose around it. Text that
// already starts as JSON is only trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		return s
	}
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	s = s[start+3:]
	// drop the info string, e.g. "json"
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	if end := strings.Index(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// rawResult keeps every field optional so absence can be told apart from a
// zero value.
type rawResult struct {
	Date     *string          `json:"date"`
	Item     *string          `json:"item"`
	Amount   *decimal.Decimal `json:"amount"`
	Category *string          `json:"category"`
}

// Parse decodes the model's answer into results. A lone object is accepted
// and treated as a one-element array.
func Parse(text string) ([]model.ExtractionResult, error) {
	cleaned := StripCodeFence(text)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	data := []byte(cleaned)
	var raws []rawResult
	if bytes.HasPrefix(data, []byte("{")) {
		var one rawResult
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		raws = []rawResult{one}
	} else if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	results := make([]model.ExtractionResult, 0, len(raws))
	for i, r := range raws {
		res, err := r.validate(i)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r rawResult) validate(i int) (model.ExtractionResult, error) {
	switch {
	case r.Date == nil || strings.TrimSpace(*r.Date) == "":
		return model.ExtractionResult{}, &FieldError{Index: i, Field: "date"}
	case r.Item == nil:
		return model.ExtractionResult{}, &FieldError{Index: i, Field: "item"}
	case r.Amount == nil:
		return model.ExtractionResult{}, &FieldError{Index: i, Field: "amount"}
	case r.Category == nil:
		return model.ExtractionResult{}, &FieldError{Index: i, Field: "category"}
	}

	date := strings.TrimSpace(*r.Date)
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return model.ExtractionResult{}, &FieldError{Index: i, Field: "date", Msg: "is not YYYY-MM-DD"}
	}
	if r.Amount.IsNegative() {
		return model.ExtractionResult{}, &FieldError{Index: i, Field: "amount", Msg: "is negative"}
	}

	return model.ExtractionResult{
		Date:     date,
		Item:     strings.TrimSpace(*r.Item),
		Amount:   *r.Amount,
		Category: model.Category(strings.TrimSpace(*r.Category)),
	}, nil
}
