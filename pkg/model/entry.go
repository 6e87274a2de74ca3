package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by entries (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// LedgerEntry is one recorded expense.
type LedgerEntry struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"`
	Item       string          `json:"item"`
	Amount     decimal.Decimal `json:"amount"`
	Category   Category        `json:"category"`
	Timestamp  int64           `json:"timestamp"` // capture time, unix millis
	SourceText string          `json:"sourceText,omitempty"`
}

// MarshalJSON writes the amount as a JSON number. Decoding accepts both a
// number and a quoted decimal.
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	type plain LedgerEntry
	return json.Marshal(struct {
		plain
		Amount Amount `json:"amount"`
	}{plain(e), Amount{e.Amount}})
}

// ExtractionResult is a candidate entry as returned by the extractor, before
// the controller stamps identity and provenance on it.
type ExtractionResult struct {
	Date     string          `json:"date"`
	Item     string          `json:"item"`
	Amount   decimal.Decimal `json:"amount"`
	Category Category        `json:"category"`
}

// Row is the projection of an entry that leaves the machine. Internal
// identifiers are never part of it.
type Row struct {
	Date     string   `json:"date"`
	Item     string   `json:"item"`
	Amount   Amount   `json:"amount"`
	Category Category `json:"category"`
}

// Amount serializes a decimal as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// ToRow projects the entry onto the mirror fields.
func (e LedgerEntry) ToRow() Row {
	return Row{
		Date:     e.Date,
		Item:     e.Item,
		Amount:   Amount{e.Amount},
		Category: e.Category,
	}
}

// Configuration holds the two user-owned destinations.
type Configuration struct {
	SheetURL   string
	WebhookURL string
}

// SyncEnabled reports whether a webhook destination is configured.
func (c Configuration) SyncEnabled() bool {
	return c.WebhookURL != ""
}
