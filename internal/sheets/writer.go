package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/ledgerview/ledgerview/internal/common"
	"github.com/ledgerview/ledgerview/internal/model"
)

// Export is the data written to the spreadsheet: one fetch cycle's derived
// views.
type Export struct {
	StartDate model.Date
	EndDate   model.Date
	Groups    []model.DateGroup
	Summary   model.PeriodSummary
	Budgets   []model.BudgetStatus
}

// Exporter defines the contract for report export destinations.
type Exporter interface {
	Export(ctx context.Context, data Export) error
}

// Writer exports dashboard views to Google Sheets.
type Writer struct {
	service *sheetsapi.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets exporter.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Export writes the ledger, summary, and budget data to the spreadsheet,
// replacing any previous export.
func (w *Writer) Export(ctx context.Context, data Export) error {
	w.logger.Info("starting export",
		"groups", len(data.Groups),
		"budgets", len(data.Budgets),
		"date_range", fmt.Sprintf("%s to %s", data.StartDate, data.EndDate))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := w.prepareRows(data)

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeRows(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// prepareRows lays out the export: summary block, budget block, then the
// date-grouped ledger newest first.
func (w *Writer) prepareRows(data Export) [][]any {
	estimated := 12 + len(data.Budgets) + len(data.Summary.ByCategory)
	for _, g := range data.Groups {
		estimated += 2 + len(g.Transactions)
	}
	values := make([][]any, 0, estimated)

	values = append(values,
		[]any{"Ledgerview Export", fmt.Sprintf("%s - %s", data.StartDate, data.EndDate)},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Income", data.Summary.TotalIncome},
		[]any{"Total Expenses", data.Summary.TotalExpenses},
		[]any{"Net Savings", data.Summary.NetSavings},
		[]any{"Transactions", data.Summary.TransactionCount},
	)

	if len(data.Summary.ByCategory) > 0 {
		values = append(values, []any{}, []any{"Category", "Net Amount"})
		for _, row := range data.Summary.ByCategory {
			values = append(values, []any{row.Category, row.Amount})
		}
	}

	if len(data.Budgets) > 0 {
		values = append(values,
			[]any{},
			[]any{"Budgets"},
			[]any{"Category", "Period", "Target", "Spent", "Remaining", "% Used", "Over", "Near Threshold"},
		)
		for _, b := range data.Budgets {
			values = append(values, []any{
				b.Category,
				string(b.Period),
				b.Amount,
				b.Spent,
				b.Remaining,
				b.PercentageUsed,
				b.IsOverBudget,
				b.IsNearThreshold,
			})
		}
	}

	values = append(values,
		[]any{},
		[]any{"Ledger"},
		[]any{"Date", "Name", "Category", "Amount", "Pending"},
	)
	for _, g := range data.Groups {
		values = append(values, []any{g.Date.String(), "Daily Total", "", g.DailyTotal, ""})
		for _, t := range g.Transactions {
			values = append(values, []any{
				t.Date.String(),
				t.DisplayName(),
				t.CategoryLabel(),
				t.Amount,
				t.Pending,
			})
		}
	}

	return values
}

// writeRows writes all rows starting at A1.
func (w *Writer) writeRows(ctx context.Context, spreadsheetID string, values [][]any) error {
	vr := &sheetsapi.ValueRange{Values: values}
	_, err := w.service.Spreadsheets.Values.
		Update(spreadsheetID, "A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.
		Clear(spreadsheetID, "A:Z", &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}

// getOrCreateSpreadsheet returns the configured spreadsheet, creating a new
// one when no ID is configured.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		if _, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheetsapi.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheetsapi.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheetsapi.SpreadsheetsScope},
		}
		tokenSource = oauthConfig.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// Ensure Writer implements the Exporter interface.
var _ Exporter = (*Writer)(nil)
