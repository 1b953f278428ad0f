package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/topi314/checkin-tracker/server/sheet"
)

var _ sheet.Store = (*Client)(nil)

// New authenticates with the service account in cfg.CredentialsFile and
// resolves the sheet to work on. header is written as row 1 of a blank sheet.
func New(ctx context.Context, cfg Config, header []string) (*Client, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWithService(ctx, cfg, svc, header)
}

// NewWithService uses an already configured sheets service.
func NewWithService(ctx context.Context, cfg Config, svc *sheets.Service, header []string) (*Client, error) {
	spreadsheet, err := svc.Spreadsheets.Get(cfg.SpreadsheetID).
		Fields("spreadsheetId,sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	var props *sheets.SheetProperties
	for _, s := range spreadsheet.Sheets {
		if s.Properties == nil {
			continue
		}
		if cfg.SheetName == "" || s.Properties.Title == cfg.SheetName {
			props = s.Properties
			break
		}
	}
	if props == nil {
		return nil, fmt.Errorf("sheet %q not found in spreadsheet %s", cfg.SheetName, cfg.SpreadsheetID)
	}

	valueInput := cfg.ValueInput
	if valueInput == "" {
		valueInput = "RAW"
	}
	every := time.Duration(cfg.Every)
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}

	slog.DebugContext(ctx, "Using spreadsheet", slog.String("spreadsheet_id", cfg.SpreadsheetID), slog.String("sheet", props.Title), slog.Int64("sheet_id", props.SheetId))

	client := &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetID:       props.SheetId,
		sheetRange:    quoteSheet(props.Title),
		valueInput:    valueInput,
		limiter:       rate.NewLimiter(limit, max(cfg.Burst, 1)),
	}

	if err = client.ensureHeader(ctx, header); err != nil {
		return nil, err
	}

	return client, nil
}

// Client is a sheet.Store backed by one sheet of a Google spreadsheet.
// Requests are throttled to stay within the Sheets API quota.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetID       int64
	sheetRange    string
	valueInput    string
	limiter       *rate.Limiter
}

func (c *Client) ensureHeader(ctx context.Context, header []string) error {
	if len(header) == 0 {
		return nil
	}
	rows, err := c.Rows(ctx)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}

	slog.InfoContext(ctx, "Writing header to empty sheet", slog.String("spreadsheet_id", c.spreadsheetID), slog.String("sheet", c.sheetRange))
	return c.AppendRow(ctx, header)
}

func (c *Client) Rows(ctx context.Context) ([][]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	rs, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	rows := make([][]string, len(rs.Values))
	for i, values := range rs.Values {
		row := make([]string, len(values))
		for j, v := range values {
			if s, ok := v.(string); ok {
				row[j] = s
				continue
			}
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func (c *Client) AppendRow(ctx context.Context, values []string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetRange, &sheets.ValueRange{
		Values: [][]any{row},
	}).
		ValueInputOption(c.valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

func (c *Client) UpdateCell(ctx context.Context, row int, col int, value string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	cell := c.sheetRange + "!" + sheet.A1(row, col)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cell, &sheets.ValueRange{
		Values: [][]any{{value}},
	}).
		ValueInputOption(c.valueInput).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s: %w", cell, err)
	}
	return nil
}

func (c *Client) SetBackground(ctx context.Context, row int, col int, color sheet.Color) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          c.sheetID,
						StartRowIndex:    int64(row - 1),
						EndRowIndex:      int64(row),
						StartColumnIndex: int64(col - 1),
						EndColumnIndex:   int64(col),
						// zero values are dropped otherwise, sheet 0 and row/col 0 are valid
						ForceSendFields: []string{"SheetId", "StartRowIndex", "EndRowIndex", "StartColumnIndex", "EndColumnIndex"},
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							BackgroundColor: &sheets.Color{
								Red:             color.Red,
								Green:           color.Green,
								Blue:            color.Blue,
								ForceSendFields: []string{"Red", "Green", "Blue"},
							},
						},
					},
					Fields: "userEnteredFormat.backgroundColor",
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to format cell %s: %w", sheet.A1(row, col), err)
	}
	return nil
}
