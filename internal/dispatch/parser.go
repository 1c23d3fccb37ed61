package dispatch

import (
	"time"

	"baecha/internal/core"
	"baecha/internal/grid"
)

// Parser turns one dispatch tab into records using a fixed Layout.
type Parser struct {
	layout Layout
}

func NewParser(layout Layout) *Parser {
	return &Parser{layout: layout}
}

// Parse cross-joins leg rows against vehicle columns. A record is emitted
// for a (leg, vehicle) pair only when its rotation-count cell coerces to
// a positive integer and the leg's type and both locations are non-empty;
// zero or non-numeric counts are silently skipped, they simply mean "no
// dispatch for that pair". A sheet missing the leg columns or the header
// rows yields zero records, not an error.
func (p *Parser) Parse(m grid.Matrix, original []grid.Row, sheetID int64, fileName, tabName string, now time.Time) []core.DispatchRecord {
	l := p.layout
	date := ResolveSheetDate(tabName, fileName, now)

	// Vertical leg arrays, carrying the last non-empty value forward.
	// Redundant with merge fill, but it keeps a malformed merge from
	// truncating a leg block.
	legCount := m.Rows() - l.DataStartRow
	if legCount < 0 {
		legCount = 0
	}
	dispatchTypes := p.verticalValues(m, l.DispatchTypeCol, legCount)
	loadings := p.verticalValues(m, l.LoadingCol, legCount)
	unloadings := p.verticalValues(m, l.UnloadingCol, legCount)
	warnings := p.verticalValues(m, l.WarningCol, legCount)

	// Horizontal header arrays over the vehicle columns.
	vehicleCount := m.Cols() - l.VehicleStartCol
	if vehicleCount < 0 {
		vehicleCount = 0
	}
	suppliers := p.horizontalValues(m, l.SupplierRow, vehicleCount)
	vehicles := p.horizontalValues(m, l.VehicleRow, vehicleCount)

	var records []core.DispatchRecord
	for i := 0; i < vehicleCount; i++ {
		for j := 0; j < legCount; j++ {
			count, ok := core.ParsePositiveInt(m.Value(l.DataStartRow+j, l.VehicleStartCol+i))
			if !ok {
				continue
			}
			if dispatchTypes[j] == "" || loadings[j] == "" || unloadings[j] == "" {
				continue
			}
			loadingMemo, _ := grid.ResolveMemo(original, m, l.LoadingCol, l.DataStartRow+j)
			unloadingMemo, _ := grid.ResolveMemo(original, m, l.UnloadingCol, l.DataStartRow+j)
			records = append(records, core.DispatchRecord{
				ID:                date,
				Date:              date,
				SheetID:           sheetID,
				Supplier:          suppliers[i],
				VehicleNumber:     vehicles[i],
				DispatchType:      dispatchTypes[j],
				LoadingLocation:   loadings[j],
				UnloadingLocation: unloadings[j],
				RotationCount:     count,
				LoadingMemo:       loadingMemo,
				UnloadingMemo:     unloadingMemo,
				// Warnings are plain cell content, read straight from
				// the matrix, never through the memo resolver.
				Warning: warnings[j],
			})
		}
	}
	return records
}

func (p *Parser) verticalValues(m grid.Matrix, col, count int) []string {
	out := make([]string, count)
	last := ""
	for j := 0; j < count; j++ {
		if v := core.CleanString(m.Value(p.layout.DataStartRow+j, col)); v != "" {
			last = v
		}
		out[j] = last
	}
	return out
}

func (p *Parser) horizontalValues(m grid.Matrix, row, count int) []string {
	out := make([]string, count)
	last := ""
	for i := 0; i < count; i++ {
		if v := core.CleanString(m.Value(row, p.layout.VehicleStartCol+i)); v != "" {
			last = v
		}
		out[i] = last
	}
	return out
}
