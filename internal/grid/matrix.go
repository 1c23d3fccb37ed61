// Package grid normalizes raw spreadsheet grid payloads into a dense,
// rectangular cell matrix with merged ranges pre-filled, and resolves the
// notes attached to merged blocks. Both sheet parsers build on it.
package grid

import (
	"fmt"

	"baecha/internal/core"
)

// Cell is one raw cell as the spreadsheet API reports it: the formatted
// display value plus the note, both possibly empty.
type Cell struct {
	Value string
	Note  string
}

// Row is one raw row. A row with no Cells is a physically empty row.
type Row struct {
	Cells []Cell
}

// MergeRange is a merged block; End indices are exclusive, matching the
// Sheets API GridRange convention.
type MergeRange struct {
	StartRow int
	EndRow   int
	StartCol int
	EndCol   int
}

// RawSheet is the adapter-independent shape of one sheet read. Rows nil
// means the source returned no grid data at all, which is fatal for the
// read; an empty cell inside a row is never fatal.
type RawSheet struct {
	SheetID int64
	Title   string
	Rows    []Row
	Merges  []MergeRange
}

// Matrix is the dense merge-filled value grid. It is rectangular (short
// rows are padded with "") and immutable once built; parsers only read it.
type Matrix struct {
	cells [][]string
}

// Build creates the Matrix for a sheet: copy every formatted value, then
// stamp each merge range's master value (its top-left cell) over the rest
// of the range. Ranges are applied in input order; if two ranges overlap,
// which the spreadsheet itself should never produce, the later one wins
// for the shared cells.
func Build(sheet RawSheet) (Matrix, error) {
	if sheet.Rows == nil {
		return Matrix{}, fmt.Errorf("sheet %q: %w", sheet.Title, core.ErrSheetDataUnavailable)
	}

	cols := 0
	for _, row := range sheet.Rows {
		if len(row.Cells) > cols {
			cols = len(row.Cells)
		}
	}
	for _, m := range sheet.Merges {
		if m.EndCol > cols {
			cols = m.EndCol
		}
	}

	rows := len(sheet.Rows)
	cells := make([][]string, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
		for c, cell := range sheet.Rows[r].Cells {
			cells[r][c] = cell.Value
		}
	}

	m := Matrix{cells: cells}
	for _, rng := range sheet.Merges {
		m.applyMerge(rng)
	}
	return m, nil
}

// applyMerge writes the master value into every non-master cell of the
// range. Cells outside the grid are ignored rather than grown: a merge
// reaching past the last data row carries no values worth filling.
func (m *Matrix) applyMerge(rng MergeRange) {
	master := m.Value(rng.StartRow, rng.StartCol)
	for r := rng.StartRow; r < rng.EndRow; r++ {
		if r < 0 || r >= len(m.cells) {
			continue
		}
		for c := rng.StartCol; c < rng.EndCol; c++ {
			if c < 0 || c >= len(m.cells[r]) {
				continue
			}
			if r == rng.StartRow && c == rng.StartCol {
				continue
			}
			m.cells[r][c] = master
		}
	}
}

// Value returns the filled cell value, or "" outside the grid.
func (m Matrix) Value(row, col int) string {
	if row < 0 || row >= len(m.cells) {
		return ""
	}
	if col < 0 || col >= len(m.cells[row]) {
		return ""
	}
	return m.cells[row][col]
}

// Rows returns the row count of the grid.
func (m Matrix) Rows() int {
	return len(m.cells)
}

// Cols returns the column count of the grid.
func (m Matrix) Cols() int {
	if len(m.cells) == 0 {
		return 0
	}
	return len(m.cells[0])
}
