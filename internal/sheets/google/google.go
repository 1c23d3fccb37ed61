// Package google adapts the Sheets v4 API to the source ports.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"baecha/internal/grid"
	sheetports "baecha/internal/sheets"
	"baecha/internal/transaction"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc      *gsheet.Service
	txLayout transaction.Layout
}

// Ensure interface conformance
var _ sheetports.Source = (*Client)(nil)

// NewFromEnv creates a Sheets client using Service Account credentials
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, txLayout transaction.Layout) (*Client, error) {
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, txLayout: txLayout}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "scope", gsheet.SpreadsheetsReadonlyScope)
	return service, nil
}

// Describe returns the spreadsheet's display name and tab list without
// grid data.
func (c *Client) Describe(ctx context.Context, spreadsheetID string) (sheetports.SpreadsheetInfo, error) {
	if c.svc == nil {
		return sheetports.SpreadsheetInfo{}, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("spreadsheetId", "properties.title", "sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return sheetports.SpreadsheetInfo{}, fmt.Errorf("describe spreadsheet %s: %w", spreadsheetID, err)
	}

	info := sheetports.SpreadsheetInfo{ID: resp.SpreadsheetId}
	if resp.Properties != nil {
		info.Title = resp.Properties.Title
	}
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		info.Tabs = append(info.Tabs, sheetports.Tab{
			SheetID: sh.Properties.SheetId,
			Title:   sh.Properties.Title,
		})
	}
	return info, nil
}

// FetchGrid reads one tab with full grid data: formatted values, notes
// and merge ranges. A response with no row data comes back with Rows nil;
// the matrix builder turns that into the fatal sheet-read error.
func (c *Client) FetchGrid(ctx context.Context, spreadsheetID, tab string) (grid.RawSheet, error) {
	if c.svc == nil {
		return grid.RawSheet{}, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Ranges(tab).
		IncludeGridData(true).
		Context(ctx).Do()
	if err != nil {
		return grid.RawSheet{}, fmt.Errorf("fetch grid %s!%s: %w", spreadsheetID, tab, err)
	}
	if len(resp.Sheets) == 0 {
		return grid.RawSheet{}, fmt.Errorf("fetch grid %s!%s: no sheet in response", spreadsheetID, tab)
	}
	return convertSheet(resp.Sheets[0]), nil
}

func convertSheet(sh *gsheet.Sheet) grid.RawSheet {
	out := grid.RawSheet{}
	if sh.Properties != nil {
		out.SheetID = sh.Properties.SheetId
		out.Title = sh.Properties.Title
	}
	for _, m := range sh.Merges {
		out.Merges = append(out.Merges, grid.MergeRange{
			StartRow: int(m.StartRowIndex),
			EndRow:   int(m.EndRowIndex),
			StartCol: int(m.StartColumnIndex),
			EndCol:   int(m.EndColumnIndex),
		})
	}
	if len(sh.Data) == 0 || sh.Data[0].RowData == nil {
		// Rows stays nil: grid.Build reports the sheet-read as failed.
		return out
	}
	out.Rows = make([]grid.Row, len(sh.Data[0].RowData))
	for r, rd := range sh.Data[0].RowData {
		cells := make([]grid.Cell, len(rd.Values))
		for i, cd := range rd.Values {
			cells[i] = grid.Cell{Value: cd.FormattedValue, Note: cd.Note}
		}
		out.Rows[r] = grid.Row{Cells: cells}
	}
	return out
}

// FetchColumns batch-reads the transaction sheet's single-column ranges,
// each open-ended from the layout's start row.
func (c *Client) FetchColumns(ctx context.Context, spreadsheetID, tab string) (transaction.Columns, error) {
	if c.svc == nil {
		return transaction.Columns{}, errors.New("sheets service not initialized")
	}
	l := c.txLayout
	letters := []string{
		l.DateCol, l.VehicleCol, l.RouteCol, l.WeightCol, l.UnitPriceCol,
		l.SupplierCol, l.BilledCol, l.PayoutCol, l.NoteCol, l.PaymentCol,
	}
	ranges := make([]string, len(letters))
	for i, col := range letters {
		ranges[i] = fmt.Sprintf("%s!%s%d:%s", tab, col, l.StartRow, col)
	}

	resp, err := c.svc.Spreadsheets.Values.BatchGet(spreadsheetID).
		Ranges(ranges...).
		Context(ctx).Do()
	if err != nil {
		return transaction.Columns{}, fmt.Errorf("fetch columns %s!%s: %w", spreadsheetID, tab, err)
	}
	if len(resp.ValueRanges) != len(ranges) {
		return transaction.Columns{}, fmt.Errorf("fetch columns %s!%s: got %d ranges, want %d", spreadsheetID, tab, len(resp.ValueRanges), len(ranges))
	}

	col := func(i int) []string { return columnStrings(resp.ValueRanges[i]) }
	return transaction.Columns{
		Date:      col(0),
		Vehicle:   col(1),
		Route:     col(2),
		Weight:    col(3),
		UnitPrice: col(4),
		Supplier:  col(5),
		Billed:    col(6),
		Payout:    col(7),
		Note:      col(8),
		Payment:   col(9),
	}, nil
}

// columnStrings flattens a single-column ValueRange; rows the API leaves
// out entirely become empty strings so positions stay aligned.
func columnStrings(vr *gsheet.ValueRange) []string {
	if vr == nil {
		return nil
	}
	out := make([]string, len(vr.Values))
	for i, row := range vr.Values {
		if len(row) > 0 {
			out[i] = strings.TrimSpace(fmt.Sprint(row[0]))
		}
	}
	return out
}
