package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harrisonrobin/aledger/pkg/model"
)

// Webhook posts the rows as a JSON text body. The response is drained and
// discarded: the receiving script gives no usable verdict.
type Webhook struct {
	httpClient *http.Client
}

func NewWebhook(timeout time.Duration) *Webhook {
	return &Webhook{httpClient: &http.Client{Timeout: timeout}}
}

// NewWebhookWithClient uses hc as is.
func NewWebhookWithClient(hc *http.Client) *Webhook {
	return &Webhook{httpClient: hc}
}

func (w *Webhook) Push(ctx context.Context, dest string, rows []model.Row) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dest, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook dispatch failed: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// WebhookScript is the Apps Script doPost that implements the receiving side:
// it replaces the sheet content with the pushed rows.
const WebhookScript = `function doPost(e) {
  try {
    var ss = SpreadsheetApp.getActiveSpreadsheet();
    var sheetName = "myledger";
    var sheet = ss.getSheetByName(sheetName);
    if (!sheet) {
      sheet = ss.insertSheet(sheetName);
    }

    var data = JSON.parse(e.postData.contents);

    sheet.clear();
    sheet.appendRow(['日期', '項目', '金額', '分類']);

    if (data && data.length > 0) {
      var rows = data.map(function(item) {
        return [item.date, item.item, item.amount, item.category];
      });
      sheet.getRange(2, 1, rows.length, 4).setValues(rows);
    }

    return ContentService.createTextOutput("OK").setMimeType(ContentService.MimeType.TEXT);
  } catch (err) {
    return ContentService.createTextOutput("Error: " + err.message).setMimeType(ContentService.MimeType.TEXT);
  }
}`
