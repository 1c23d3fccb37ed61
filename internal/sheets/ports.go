package sheets

import (
	"context"

	"baecha/internal/grid"
	"baecha/internal/transaction"
)

// Tab identifies one sheet tab inside a spreadsheet.
type Tab struct {
	SheetID int64
	Title   string
}

// SpreadsheetInfo describes a spreadsheet file: the id the source knows
// it by, its display name, and its tabs.
type SpreadsheetInfo struct {
	ID    string
	Title string
	Tabs  []Tab
}

// Ports for the spreadsheet sources. Both the Sheets API adapter and the
// local workbook adapter implement all of them; the ingest pipeline only
// ever sees these interfaces.
type (
	Describer interface {
		Describe(ctx context.Context, spreadsheetID string) (SpreadsheetInfo, error)
	}

	// GridFetcher returns one tab's raw grid (formatted values, notes
	// and merge ranges) for the dispatch parser.
	GridFetcher interface {
		FetchGrid(ctx context.Context, spreadsheetID, tab string) (grid.RawSheet, error)
	}

	// ColumnFetcher returns the transaction sheet's fixed column ranges.
	ColumnFetcher interface {
		FetchColumns(ctx context.Context, spreadsheetID, tab string) (transaction.Columns, error)
	}

	// Source is what the ingest service works against.
	Source interface {
		Describer
		GridFetcher
		ColumnFetcher
	}
)
