package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/harrisonrobin/aledger/pkg/model"
)

// Header is the first TSV line.
var Header = []string{"日期", "項目", "金額", "分類"}

// ErrNothingToCopy is returned when the collection is empty.
var ErrNothingToCopy = errors.New("no entries to copy")

// TSV renders entries as tab-separated text, header first, in the given order.
func TSV(entries []model.LedgerEntry) string {
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, strings.Join(Header, "\t"))
	for _, e := range entries {
		lines = append(lines, strings.Join([]string{
			e.Date,
			e.Item,
			e.Amount.String(),
			string(e.Category),
		}, "\t"))
	}
	return strings.Join(lines, "\n")
}

// writeAll is swapped in tests.
var writeAll = clipboard.WriteAll

// ToClipboard places the TSV rendering of entries on the system clipboard.
func ToClipboard(entries []model.LedgerEntry) error {
	if len(entries) == 0 {
		return ErrNothingToCopy
	}
	if clipboard.Unsupported {
		return errors.New("clipboard is not available on this system")
	}
	if err := writeAll(TSV(entries)); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	return nil
}
