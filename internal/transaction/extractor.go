// Package transaction extracts flat payroll transaction rows from the
// fixed transaction-sheet layout, one record per physical row.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"baecha/internal/core"
)

// Layout names the transaction sheet's positional assumptions: the first
// data row in 1-indexed sheet numbering (the 13-row header block ends at
// 13) and the column letter for each field.
type Layout struct {
	StartRow int `yaml:"start_row"`

	DateCol      string `yaml:"date_col"`
	VehicleCol   string `yaml:"vehicle_col"`
	RouteCol     string `yaml:"route_col"`
	WeightCol    string `yaml:"weight_col"`
	UnitPriceCol string `yaml:"unit_price_col"`
	SupplierCol  string `yaml:"supplier_col"`
	BilledCol    string `yaml:"billed_col"`
	PayoutCol    string `yaml:"payout_col"`
	NoteCol      string `yaml:"note_col"`
	PaymentCol   string `yaml:"payment_col"`
}

// DefaultLayout matches the sheet as currently authored.
func DefaultLayout() Layout {
	return Layout{
		StartRow:     14,
		DateCol:      "A",
		VehicleCol:   "B",
		RouteCol:     "C",
		WeightCol:    "D",
		UnitPriceCol: "E",
		SupplierCol:  "F",
		BilledCol:    "G",
		PayoutCol:    "H",
		NoteCol:      "I",
		PaymentCol:   "J",
	}
}

// Columns holds the single-column ranges fetched for one sheet, each
// starting at Layout.StartRow. Columns may have different lengths; the
// extractor iterates to the longest.
type Columns struct {
	Date      []string
	Vehicle   []string
	Route     []string
	Weight    []string
	UnitPrice []string
	Supplier  []string
	Billed    []string
	Payout    []string
	Note      []string
	Payment   []string
}

// MaxLen returns the length of the longest column.
func (c Columns) MaxLen() int {
	max := 0
	for _, col := range [][]string{c.Date, c.Vehicle, c.Route, c.Weight, c.UnitPrice, c.Supplier, c.Billed, c.Payout, c.Note, c.Payment} {
		if len(col) > max {
			max = len(col)
		}
	}
	return max
}

func at(col []string, i int) string {
	if i < 0 || i >= len(col) {
		return ""
	}
	return col[i]
}

// Stats reports what one extraction did with its input rows.
type Stats struct {
	Total     int // iterated row positions
	Processed int // rows emitted
	Skipped   int // blank or content-free rows
	Dropped   int // rows with an unparseable date
}

// Extractor extracts transaction rows for one file.
type Extractor struct {
	layout Layout
}

func NewExtractor(layout Layout) *Extractor {
	return &Extractor{layout: layout}
}

// Extract walks the column arrays in lockstep. An empty date cell skips
// the row: blank separator rows appear mid-sheet, so a blank is never
// treated as the end of data. A row whose vehicle and route are both
// empty is noise and is skipped too. A row whose date parses as neither
// an Excel serial nor a calendar string is dropped with a warning; the
// batch continues.
//
// Row ids are "<fileID>_<physicalRow>" where physicalRow is the position
// in the iteration plus Layout.StartRow: skipped positions still count,
// so ids are stable across re-extraction regardless of blank rows.
func (e *Extractor) Extract(ctx context.Context, cols Columns, fileID, fileName string) ([]core.TransactionRow, Stats) {
	var (
		rows  []core.TransactionRow
		stats Stats
	)
	n := cols.MaxLen()
	stats.Total = n
	for i := 0; i < n; i++ {
		dateCell := core.CleanString(at(cols.Date, i))
		if dateCell == "" {
			stats.Skipped++
			continue
		}
		vehicle := core.CleanString(at(cols.Vehicle, i))
		route := core.CleanString(at(cols.Route, i))
		if vehicle == "" && route == "" {
			stats.Skipped++
			continue
		}

		physicalRow := i + e.layout.StartRow
		date, err := core.NormalizeDate(dateCell)
		if err != nil {
			if !errors.Is(err, core.ErrInvalidDateFormat) {
				err = fmt.Errorf("%w: %v", core.ErrInvalidDateFormat, err)
			}
			slog.WarnContext(ctx, "Dropping transaction row with bad date",
				"file_id", fileID,
				"row", physicalRow,
				"value", dateCell,
				"error", err)
			stats.Dropped++
			continue
		}

		rows = append(rows, core.TransactionRow{
			ID:            fmt.Sprintf("%s_%d", fileID, physicalRow),
			FileID:        fileID,
			FileName:      fileName,
			Date:          date,
			VehicleNumber: vehicle,
			Route:         route,
			Weight:        core.ParseAmount(at(cols.Weight, i)),
			UnitPrice:     core.ParseAmount(at(cols.UnitPrice, i)),
			Supplier:      core.CleanString(at(cols.Supplier, i)),
			BilledAmount:  core.ParseAmount(at(cols.Billed, i)),
			PayoutAmount:  core.ParseAmount(at(cols.Payout, i)),
			Note:          core.CleanString(at(cols.Note, i)),
			Payment:       core.CleanString(at(cols.Payment, i)),
		})
		stats.Processed++
	}
	return rows, stats
}
