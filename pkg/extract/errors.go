package extract

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotConfigured means no generator or API key is available.
	ErrNotConfigured = errors.New("extraction is not configured")
	// ErrRateLimited is matched by transport errors carrying HTTP 429.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmptyResponse means the model returned no usable text.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrMalformed covers text that is not JSON or lacks required fields.
	ErrMalformed = errors.New("malformed extraction result")
	// ErrNothingExtracted is returned when extraction succeeds with no records.
	ErrNothingExtracted = errors.New("no expenses found in input")
)

// TransportError is a failed call to the text-generation endpoint.
type TransportError struct {
	StatusCode int    // 0 when the request never got a response
	Reason     string // provider supplied message, if any
	Err        error
}

func (e *TransportError) Error() string {
	msg := "text generation request failed"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.StatusCode == 0 && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}

// FieldError reports a required field missing or invalid in one record.
type FieldError struct {
	Index int
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("record %d: missing field %q", e.Index, e.Field)
	}
	return fmt.Sprintf("record %d: field %q %s", e.Index, e.Field, e.Msg)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMalformed
}

// UserMessage turns an extraction or controller error into text suitable for
// showing to the person who typed the input.
func UserMessage(err error) string {
	var te *TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return "The service is rate limiting requests, please wait a moment before retrying."
	case errors.Is(err, ErrNotConfigured):
		return "Extraction is not configured: set GEMINI_API_KEY and try again."
	case errors.Is(err, ErrNothingExtracted):
		return "Could not understand the input as an expense, try rephrasing it."
	case errors.As(err, &te):
		if te.StatusCode != 0 {
			return fmt.Sprintf("The text generation service failed (status %d): %s", te.StatusCode, reasonOrDefault(te.Reason))
		}
		return "Could not reach the text generation service, check your connection."
	case errors.Is(err, ErrEmptyResponse), errors.Is(err, ErrMalformed):
		return "Could not parse the model's answer, please try again."
	default:
		return "Something went wrong: " + err.Error()
	}
}

func reasonOrDefault(s string) string {
	if s == "" {
		return "no reason given"
	}
	return s
}
