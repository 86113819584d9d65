package sheets

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/barbershop/internal/config"
	"github.com/mamadbah2/barbershop/internal/domain/models"
)

const (
	resultsRange = "Results!A:L"
	periodsRange = "Results!A:A"

	// RAW stores cells exactly as sent; USER_ENTERED would turn the "2025-06"
	// period key into a date and break the re-export check.
	valueInputOption = "RAW"
)

// Repository exports closed-month results to a spreadsheet.
type Repository interface {
	AppendResults(ctx context.Context, results []models.MonthlyResult) error
	ExportedPeriods(ctx context.Context) (map[string]bool, error)
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return newGoogleSheetRepository(service, cfg.SpreadsheetID, logger), nil
}

func newGoogleSheetRepository(service *sheetsapi.Service, spreadsheetID string, logger *zap.Logger) *GoogleSheetRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}
}

// AppendResults writes one row per barber in a single append call.
func (r *GoogleSheetRepository) AppendResults(ctx context.Context, results []models.MonthlyResult) error {
	if len(results) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(results))
	for _, res := range results {
		rows = append(rows, ResultRow(res))
	}

	payload := &sheetsapi.ValueRange{Values: rows}
	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, resultsRange, payload).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append results into range %s: %w", resultsRange, err)
	}

	r.logger.Debug("results appended to sheet", zap.Int("rows", len(rows)))
	return nil
}

// ExportedPeriods returns the set of "YYYY-MM" keys already present in the sheet.
func (r *GoogleSheetRepository) ExportedPeriods(ctx context.Context) (map[string]bool, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, periodsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", periodsRange, err)
	}

	periods := make(map[string]bool, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		periods[fmt.Sprint(row[0])] = true
	}
	return periods, nil
}

// PeriodKey is the value of the first column of every exported row.
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ResultRow lays a result out in the sheet's column order. Amounts are sent as
// numbers rounded to cents so the sheet can still sum them under RAW input.
func ResultRow(res models.MonthlyResult) []interface{} {
	return []interface{}{
		PeriodKey(res.Year, res.Month),
		res.UnitName,
		res.BarberName,
		res.Stats.DaysWorked,
		res.Stats.TotalClients,
		cents(res.Stats.TotalRevenue),
		cents(res.Stats.AverageTicket),
		cents(res.Stats.AccumulatedCommission),
		cents(res.Goal),
		res.Achieved,
		cents(res.Stats.ServicesConversion),
		res.ExportedAt.Format("2006-01-02 15:04"),
	}
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
