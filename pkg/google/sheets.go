package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/harrisonrobin/aledger/pkg/export"
	"github.com/harrisonrobin/aledger/pkg/logger"
	"github.com/harrisonrobin/aledger/pkg/model"
	"google.golang.org/api/sheets/v4"
)

var (
	ErrNoSpreadsheetID = errors.New("no spreadsheet id in sheet URL")

	urlID  = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	bareID = regexp.MustCompile(`^[a-zA-Z0-9_-]{20,}$`)
)

// SpreadsheetID extracts the document id from a sheet URL. A bare id is
// returned unchanged.
func SpreadsheetID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if m := urlID.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if bareID.MatchString(ref) {
		return ref, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNoSpreadsheetID, ref)
}

// SheetsClient replaces the content of one tab with the ledger rows. It
// implements mirror.Pusher with the sheet URL as destination.
type SheetsClient struct {
	srv   *sheets.Service
	sheet string
	log   *slog.Logger
}

func NewSheetsClient(srv *sheets.Service, sheetName string, l *slog.Logger) *SheetsClient {
	if l == nil {
		l = logger.Discard()
	}
	return &SheetsClient{srv: srv, sheet: sheetName, log: l}
}

// Push clears the tab and writes the header followed by rows. The tab is
// created when missing.
func (c *SheetsClient) Push(ctx context.Context, dest string, rows []model.Row) error {
	id, err := SpreadsheetID(dest)
	if err != nil {
		return err
	}
	if err := c.ensureSheet(ctx, id); err != nil {
		return err
	}

	if _, err := c.srv.Spreadsheets.Values.Clear(id, c.quoted(), &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", c.sheet, err)
	}

	vr := &sheets.ValueRange{Values: values(rows)}
	_, err = c.srv.Spreadsheets.Values.Update(id, c.quoted()+"!A1", vr).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", c.sheet, err)
	}
	c.log.Debug("sheet replaced", "spreadsheet", id, "sheet", c.sheet, "rows", len(rows))
	return nil
}

func (c *SheetsClient) ensureSheet(ctx context.Context, id string) error {
	doc, err := c.srv.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet %s: %w", id, err)
	}
	for _, s := range doc.Sheets {
		if s.Properties != nil && s.Properties.Title == c.sheet {
			return nil
		}
	}

	c.log.Info("creating sheet", "spreadsheet", id, "sheet", c.sheet)
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: c.sheet},
			},
		}},
	}
	if _, err := c.srv.Spreadsheets.BatchUpdate(id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", c.sheet, err)
	}
	return nil
}

func (c *SheetsClient) quoted() string {
	return "'" + strings.ReplaceAll(c.sheet, "'", "''") + "'"
}

// values lays out the header row and one row per entry. Amounts go out as
// numbers so the sheet can sum them.
func values(rows []model.Row) [][]interface{} {
	out := make([][]interface{}, 0, len(rows)+1)
	header := make([]interface{}, len(export.Header))
	for i, h := range export.Header {
		header[i] = h
	}
	out = append(out, header)
	for _, r := range rows {
		out = append(out, []interface{}{r.Date, r.Item, json.Number(r.Amount.String()), string(r.Category)})
	}
	return out
}
