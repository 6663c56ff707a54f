// Package export appends per-user monthly summaries to a Google Sheet.
// The exporter authenticates with service account credentials and only
// ever appends rows; the spreadsheet is an outbound report, not a store.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/log"
	"fintrack/internal/stats"
)

// SummaryWriter is implemented by SheetsExporter and by test fakes.
type SummaryWriter interface {
	AppendSummary(ctx context.Context, owner string, incomes, expenses stats.Summary) error
}

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// NewSheetsExporter builds an exporter from inline credentials JSON or,
// when empty, from the file named by GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName, credentialsJSON string, logger *log.Logger) (*SheetsExporter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet ID is required")
	}
	if sheetName == "" {
		return nil, errors.New("sheet name is required")
	}

	credentials := []byte(strings.TrimSpace(credentialsJSON))
	if len(credentials) == 0 {
		path := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if path == "" {
			return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS)")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentials = data
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentExport),
	}, nil
}

// AppendSummary appends one row per month bucket: owner, export time,
// month label, income total, expense total, net. Buckets are aligned by
// month key, so both summaries must be computed from the same instant.
func (e *SheetsExporter) AppendSummary(ctx context.Context, owner string, incomes, expenses stats.Summary) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	expenseByMonth := make(map[string]stats.MonthlyBucket, len(expenses.Series))
	for _, b := range expenses.Series {
		expenseByMonth[b.MonthKey] = b
	}

	exportedAt := time.Now().UTC().Format(time.RFC3339)
	rows := make([][]any, 0, len(incomes.Series))
	for _, in := range incomes.Series {
		out := expenseByMonth[in.MonthKey]
		rows = append(rows, []any{
			owner,
			exportedAt,
			in.Label,
			in.Total.InexactFloat64(),
			out.Total.InexactFloat64(),
			in.Total.Sub(out.Total).InexactFloat64(),
		})
	}
	if len(rows) == 0 {
		return nil
	}

	rng := fmt.Sprintf("%s!A:F", e.sheetName)
	vr := &gsheet.ValueRange{Values: rows}
	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append summary rows to sheet %s: %w", e.sheetName, err)
	}

	e.logger.InfoContext(ctx, "appended summary rows",
		log.FieldOwnerID, owner,
		"rows", len(rows),
		"sheet", e.sheetName)
	return nil
}
