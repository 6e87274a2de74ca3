package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEntryDecodesNumericAmount(t *testing.T) {
	input := `{"id":"a1","date":"2024-05-10","item":"午餐","amount":100,"category":"食","timestamp":1715300000000,"sourceText":"午餐 100元"}`

	var e LedgerEntry
	require.NoError(t, json.Unmarshal([]byte(input), &e))

	assert.Equal(t, "a1", e.ID)
	assert.Equal(t, Food, e.Category)
	assert.True(t, e.Amount.Equal(decimal.NewFromInt(100)), "amount = %s", e.Amount)
	assert.Equal(t, int64(1715300000000), e.Timestamp)
	assert.Equal(t, "午餐 100元", e.SourceText)
}

func TestLedgerEntryEncodesNumericAmount(t *testing.T) {
	e := LedgerEntry{ID: "a", Date: "2024-05-10", Item: "午餐", Amount: decimal.RequireFromString("100.5"), Category: Food, Timestamp: 1}

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","date":"2024-05-10","item":"午餐","amount":100.5,"category":"食","timestamp":1}`, string(b))

	var back LedgerEntry
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Amount.Equal(e.Amount))

	var quoted LedgerEntry
	require.NoError(t, json.Unmarshal([]byte(`{"id":"q","amount":"12.25"}`), &quoted))
	assert.Equal(t, "12.25", quoted.Amount.String())
}

func TestToRowDropsInternalFields(t *testing.T) {
	e := LedgerEntry{
		ID:         "secret-id",
		Date:       "2024-05-09",
		Item:       "晚餐",
		Amount:     decimal.RequireFromString("250.5"),
		Category:   Food,
		Timestamp:  42,
		SourceText: "晚餐250元昨天",
	}

	b, err := json.Marshal(e.ToRow())
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-09","item":"晚餐","amount":250.5,"category":"食"}`, string(b))
	assert.NotContains(t, string(b), "secret-id")
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), "category %s", c)
	}
	assert.False(t, Category("雜").Valid())
	assert.False(t, Other.Valid())
	assert.Equal(t, "other", Category("雜").English())
	assert.Equal(t, "transport", Transport.English())
}

func TestSyncStatusTerminal(t *testing.T) {
	assert.True(t, SUCCESS.Terminal())
	assert.True(t, ERROR.Terminal())
	assert.False(t, IDLE.Terminal())
	assert.False(t, SYNCING.Terminal())
}
