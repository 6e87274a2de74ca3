package google

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harrisonrobin/aledger/pkg/auth"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewClient authorizes against Google and returns a SheetsClient writing to
// the tab named sheetName.
func NewClient(ctx context.Context, sheetName string, l *slog.Logger) (*SheetsClient, error) {
	hc, err := auth.GetClient(ctx, auth.Scopes)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(hc))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Sheets client: %w", err)
	}
	return NewSheetsClient(srv, sheetName, l), nil
}
