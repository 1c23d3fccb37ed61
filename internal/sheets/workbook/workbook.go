// Package workbook adapts a local .xlsx file to the source ports, so the
// pipeline can ingest emailed workbook copies without Google credentials.
package workbook

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"baecha/internal/grid"
	sheetports "baecha/internal/sheets"
	"baecha/internal/transaction"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type Workbook struct {
	file     *excelize.File
	fileID   string
	title    string
	txLayout transaction.Layout
}

// Ensure interface conformance
var _ sheetports.Source = (*Workbook)(nil)

// Open loads a workbook from disk. Local files carry no spreadsheet id,
// so each open gets a fresh one; callers that need stable ids across runs
// pass their own via WithFileID.
func Open(path string, txLayout transaction.Layout) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{
		file:     f,
		fileID:   uuid.New().String(),
		title:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		txLayout: txLayout,
	}, nil
}

// WithFileID overrides the generated file id.
func (w *Workbook) WithFileID(id string) *Workbook {
	w.fileID = id
	return w
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// Describe lists the workbook's tabs. The spreadsheetID argument is
// ignored; a Workbook is already bound to one file.
func (w *Workbook) Describe(_ context.Context, _ string) (sheetports.SpreadsheetInfo, error) {
	info := sheetports.SpreadsheetInfo{ID: w.fileID, Title: w.title}
	for i, name := range w.file.GetSheetList() {
		info.Tabs = append(info.Tabs, sheetports.Tab{SheetID: int64(i), Title: name})
	}
	return info, nil
}

// FetchGrid reads one tab's values, comments and merge ranges into the
// same RawSheet shape the API adapter produces.
func (w *Workbook) FetchGrid(_ context.Context, _ string, tab string) (grid.RawSheet, error) {
	rows, err := w.file.GetRows(tab)
	if err != nil {
		return grid.RawSheet{}, fmt.Errorf("read rows %s!%s: %w", w.title, tab, err)
	}

	notes := make(map[[2]int]string)
	comments, err := w.file.GetComments(tab)
	if err != nil {
		return grid.RawSheet{}, fmt.Errorf("read comments %s!%s: %w", w.title, tab, err)
	}
	for _, c := range comments {
		col, row, err := excelize.CellNameToCoordinates(c.Cell)
		if err != nil {
			continue
		}
		notes[[2]int{row - 1, col - 1}] = commentText(c)
	}

	merges, err := w.mergeRanges(tab)
	if err != nil {
		return grid.RawSheet{}, err
	}

	idx, _ := w.file.GetSheetIndex(tab)
	out := grid.RawSheet{SheetID: int64(idx), Title: tab, Merges: merges}
	// An empty tab comes back with nil rows; that is still a readable
	// sheet, not a failed read.
	out.Rows = make([]grid.Row, len(rows))
	for r, row := range rows {
		cells := make([]grid.Cell, len(row))
		for c, v := range row {
			cells[c] = grid.Cell{Value: v, Note: notes[[2]int{r, c}]}
		}
		out.Rows[r] = grid.Row{Cells: cells}
	}
	return out, nil
}

func commentText(c excelize.Comment) string {
	if c.Text != "" {
		return c.Text
	}
	var b strings.Builder
	for _, run := range c.Paragraph {
		b.WriteString(run.Text)
	}
	return b.String()
}

func (w *Workbook) mergeRanges(tab string) ([]grid.MergeRange, error) {
	cells, err := w.file.GetMergeCells(tab)
	if err != nil {
		return nil, fmt.Errorf("read merges %s!%s: %w", w.title, tab, err)
	}
	var out []grid.MergeRange
	for _, mc := range cells {
		startCol, startRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			continue
		}
		out = append(out, grid.MergeRange{
			StartRow: startRow - 1,
			EndRow:   endRow, // exclusive
			StartCol: startCol - 1,
			EndCol:   endCol,
		})
	}
	return out, nil
}

// FetchColumns slices the transaction sheet's fixed columns out of the
// tab, starting at the layout's start row.
func (w *Workbook) FetchColumns(_ context.Context, _ string, tab string) (transaction.Columns, error) {
	rows, err := w.file.GetRows(tab)
	if err != nil {
		return transaction.Columns{}, fmt.Errorf("read rows %s!%s: %w", w.title, tab, err)
	}
	l := w.txLayout

	col := func(letter string) []string {
		n, err := excelize.ColumnNameToNumber(letter)
		if err != nil {
			return nil
		}
		idx := n - 1
		var out []string
		for r := l.StartRow - 1; r < len(rows); r++ {
			v := ""
			if idx < len(rows[r]) {
				v = rows[r][idx]
			}
			out = append(out, v)
		}
		return out
	}

	return transaction.Columns{
		Date:      col(l.DateCol),
		Vehicle:   col(l.VehicleCol),
		Route:     col(l.RouteCol),
		Weight:    col(l.WeightCol),
		UnitPrice: col(l.UnitPriceCol),
		Supplier:  col(l.SupplierCol),
		Billed:    col(l.BilledCol),
		Payout:    col(l.PayoutCol),
		Note:      col(l.NoteCol),
		Payment:   col(l.PaymentCol),
	}, nil
}
