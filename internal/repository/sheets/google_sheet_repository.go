package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/smallerp/internal/config"
)

// Repository is the spreadsheet access the entity store needs.
type Repository interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRanges(ctx context.Context, sheetRanges ...string) (map[string][][]interface{}, error)
}

// GoogleSheetRepository implements Repository with the Google Sheets v4 API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with a service account key file.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRows inserts rows after the last non-empty row of sheetRange.
// Values are stored raw so numeric strings are not reformatted by the locale.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return errors.New("sheetRange must not be empty")
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows into %s: %w", len(rows), sheetRange, err)
	}

	r.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// ReadRanges fetches several ranges in one request, keyed by the requested range.
func (r *GoogleSheetRepository) ReadRanges(ctx context.Context, sheetRanges ...string) (map[string][][]interface{}, error) {
	if len(sheetRanges) == 0 {
		return nil, errors.New("at least one range is required")
	}

	resp, err := r.service.Spreadsheets.Values.BatchGet(r.spreadsheetID).
		Ranges(sheetRanges...).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("batch read %d ranges: %w", len(sheetRanges), err)
	}

	// The API echoes ranges normalized (e.g. "Sales!A1:I200"), so match by position.
	out := make(map[string][][]interface{}, len(sheetRanges))
	for i, vr := range resp.ValueRanges {
		if i >= len(sheetRanges) {
			break
		}
		out[sheetRanges[i]] = vr.Values
	}

	r.logger.Debug("ranges read from sheet", zap.Strings("ranges", sheetRanges))
	return out, nil
}
