package extract

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/aledger/pkg/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("午餐 100元, 晚餐250元昨天", today)

	assert.Contains(t, p, "2024-05-10")
	assert.Contains(t, p, "2024-05-09")
	assert.Contains(t, p, "食、衣、住、行、育、樂")
	assert.Contains(t, p, `"午餐 100元, 晚餐250元昨天"`)
	assert.Contains(t, p, "JSON")
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", ` [{"a":1}] `, `[{"a":1}]`},
		{"json fence", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"bare fence", "```\n[]\n```", `[]`},
		{"single line", "```json [1]```", `[1]`},
		{"prose before fence", "Here are the expenses:\n```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"prose after fence", "```json\n[]\n```\nLet me know if anything is missing.", `[]`},
		{"backticks inside plain json", "[{\"item\":\"```\"}]", "[{\"item\":\"```\"}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}

func TestParseArray(t *testing.T) {
	text := "```json\n" + `[
		{"date":"2024-05-10","item":"午餐","amount":100,"category":"食"},
		{"date":"2024-05-09","item":"晚餐","amount":250,"category":"食"}
	]` + "\n```"

	got, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "午餐", got[0].Item)
	assert.Equal(t, "2024-05-09", got[1].Date)
	assert.True(t, got[1].Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, model.Food, got[1].Category)
}

func TestParseFencedAfterProse(t *testing.T) {
	got, err := Parse("好的，以下是結果：\n```json\n[{\"date\":\"2024-05-10\",\"item\":\"午餐\",\"amount\":100,\"category\":\"食\"}]\n```")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "午餐", got[0].Item)
}

func TestParseSingleObjectIsWrapped(t *testing.T) {
	got, err := Parse(`{"date":"2024-05-10","item":"電影","amount":"320","category":"樂"}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.Entertainment, got[0].Category)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(320)))
}

func TestParseKeepsUnknownCategory(t *testing.T) {
	got, err := Parse(`[{"date":"2024-05-10","item":"禮物","amount":500,"category":"其他"}]`)
	require.NoError(t, err)
	assert.Equal(t, model.Category("其他"), got[0].Category)
	assert.False(t, got[0].Category.Valid())
}

func TestParseEmptyArray(t *testing.T) {
	got, err := Parse("[]")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
		field  string
	}{
		{"empty", "   ", ErrEmptyResponse, ""},
		{"not json", "sorry, I cannot help", ErrMalformed, ""},
		{"missing amount", `[{"date":"2024-05-10","item":"x","category":"食"}]`, ErrMalformed, "amount"},
		{"missing date", `[{"item":"x","amount":1,"category":"食"}]`, ErrMalformed, "date"},
		{"null category", `[{"date":"2024-05-10","item":"x","amount":1,"category":null}]`, ErrMalformed, "category"},
		{"bad date", `[{"date":"10/05/2024","item":"x","amount":1,"category":"食"}]`, ErrMalformed, "date"},
		{"negative", `[{"date":"2024-05-10","item":"x","amount":-3,"category":"食"}]`, ErrMalformed, "amount"},
		{"amount not numeric", `[{"date":"2024-05-10","item":"x","amount":"lots","category":"食"}]`, ErrMalformed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			if tt.field != "" {
				var fe *FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.field, fe.Field)
			}
		})
	}
}

func TestClientExtractPassesPromptToGenerator(t *testing.T) {
	var seen string
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		seen = prompt
		return `[{"date":"2024-05-10","item":"咖啡","amount":60,"category":"食"}]`, nil
	})

	got, err := New(gen, WithLimiter(PerMinute(0))).Extract(context.Background(), "咖啡60", today)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, seen, "咖啡60")
	assert.Contains(t, seen, "2024-05-10")
}

func TestClientExtractNotConfigured(t *testing.T) {
	_, err := New(nil).Extract(context.Background(), "x", today)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClientExtractPropagatesTransportError(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", &TransportError{StatusCode: http.StatusTooManyRequests, Reason: "Resource has been exhausted"}
	})

	_, err := New(gen).Extract(context.Background(), "x", today)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "429")
}

func TestClientExtractLimiterHonoursContext(t *testing.T) {
	calls := 0
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "[]", nil
	})
	c := New(gen, WithLimiter(PerMinute(1)))

	_, err := c.Extract(context.Background(), "x", today)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Extract(ctx, "y", today)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestUserMessage(t *testing.T) {
	rateLimited := UserMessage(&TransportError{StatusCode: 429})
	generic := UserMessage(&TransportError{StatusCode: 500, Reason: "internal"})
	offline := UserMessage(&TransportError{Err: errors.New("dial tcp: no route to host")})

	assert.Contains(t, rateLimited, "wait")
	assert.NotContains(t, generic, "wait")
	assert.Contains(t, generic, "500")
	assert.Contains(t, generic, "internal")
	assert.NotEqual(t, rateLimited, generic)
	assert.Contains(t, offline, "connection")

	assert.Contains(t, UserMessage(ErrNothingExtracted), "understand")
	assert.Contains(t, UserMessage(&FieldError{Index: 0, Field: "amount"}), "parse")
	assert.True(t, strings.HasPrefix(UserMessage(errors.New("boom")), "Something went wrong"))
	assert.Equal(t, "", UserMessage(nil))
}
