package dispatch

import (
	"testing"
	"time"

	"baecha/internal/grid"
)

// buildDispatchSheet assembles a small dispatch tab in the default
// layout: two vehicle columns (6, 7) and two leg rows (6, 7).
func buildDispatchSheet(rotations [2][2]string) grid.RawSheet {
	cells := make([][]grid.Cell, 8)
	for r := range cells {
		cells[r] = make([]grid.Cell, 8)
	}
	set := func(r, c int, v string) { cells[r][c].Value = v }

	// Horizontal headers
	set(3, 6, "한진물류") // merged across both vehicle columns
	set(4, 6, "88바1234")
	set(4, 7, "90아5678")

	// Vertical leg columns
	set(6, 0, "왕복")
	set(6, 1, "인천항")
	set(6, 2, "구미공단")
	set(6, 3, "야간 상차")
	set(7, 0, "편도")
	set(7, 1, "부산신항")
	set(7, 2, "대구물류센터")

	// Rotation grid
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			set(6+j, 6+i, rotations[j][i])
		}
	}

	rows := make([]grid.Row, len(cells))
	for r := range cells {
		rows[r] = grid.Row{Cells: cells[r]}
	}
	return grid.RawSheet{
		Rows: rows,
		Merges: []grid.MergeRange{
			{StartRow: 3, EndRow: 4, StartCol: 6, EndCol: 8}, // supplier header
		},
	}
}

func TestParser_RotationGating(t *testing.T) {
	now := time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)
	parser := NewParser(DefaultLayout())

	tests := []struct {
		name      string
		rotations [2][2]string
		want      int
	}{
		{"all zero yields nothing", [2][2]string{{"0", "0"}, {"0", "0"}}, 0},
		{"non-numeric yields nothing", [2][2]string{{"x", ""}, {"-", " "}}, 0},
		{"single string count", [2][2]string{{"2", ""}, {"", ""}}, 1},
		{"full grid", [2][2]string{{"1", "2"}, {"3", "1"}}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := buildDispatchSheet(tt.rotations)
			m, err := grid.Build(sheet)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			records := parser.Parse(m, sheet.Rows, 7, "배차표(2024년)", "8월20일", now)
			if len(records) != tt.want {
				t.Fatalf("Parse() produced %d records, want %d", len(records), tt.want)
			}
		})
	}
}

func TestParser_RecordFields(t *testing.T) {
	now := time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)
	sheet := buildDispatchSheet([2][2]string{{"", "2"}, {"", ""}})
	sheet.Rows[6].Cells[1].Note = "정문 말고 후문"

	m, err := grid.Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	records := NewParser(DefaultLayout()).Parse(m, sheet.Rows, 7, "배차표(2024년)", "8월20일", now)
	if len(records) != 1 {
		t.Fatalf("Parse() produced %d records, want 1", len(records))
	}

	r := records[0]
	if r.ID != "2024-08-20" || r.Date != "2024-08-20" {
		t.Errorf("id/date = %q/%q, want 2024-08-20", r.ID, r.Date)
	}
	if r.SheetID != 7 {
		t.Errorf("SheetID = %d, want 7", r.SheetID)
	}
	// Supplier is merged across both vehicle columns; vehicle is per
	// column.
	if r.Supplier != "한진물류" {
		t.Errorf("Supplier = %q, want 한진물류", r.Supplier)
	}
	if r.VehicleNumber != "90아5678" {
		t.Errorf("VehicleNumber = %q, want 90아5678", r.VehicleNumber)
	}
	if r.DispatchType != "왕복" || r.LoadingLocation != "인천항" || r.UnloadingLocation != "구미공단" {
		t.Errorf("leg = %q/%q/%q", r.DispatchType, r.LoadingLocation, r.UnloadingLocation)
	}
	if r.RotationCount != 2 {
		t.Errorf("RotationCount = %d, want 2", r.RotationCount)
	}
	if r.LoadingMemo != "정문 말고 후문" {
		t.Errorf("LoadingMemo = %q, want the note", r.LoadingMemo)
	}
	if r.UnloadingMemo != "" {
		t.Errorf("UnloadingMemo = %q, want empty", r.UnloadingMemo)
	}
	// Warnings come straight off the matrix, not through the resolver.
	if r.Warning != "야간 상차" {
		t.Errorf("Warning = %q, want 야간 상차", r.Warning)
	}
}

func TestParser_CarryForwardFillsGaps(t *testing.T) {
	now := time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)
	sheet := buildDispatchSheet([2][2]string{{"", ""}, {"2", ""}})
	// Remove the second leg's unloading location; the positive rotation
	// count alone must not emit a record.
	sheet.Rows[7].Cells[2].Value = ""

	m, err := grid.Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	records := NewParser(DefaultLayout()).Parse(m, sheet.Rows, 1, "배차표(2024년)", "8월20일", now)
	// Carry-forward fills the unloading gap from the leg above, so the
	// record survives with the carried value.
	if len(records) != 1 {
		t.Fatalf("Parse() produced %d records, want 1", len(records))
	}
	if records[0].UnloadingLocation != "구미공단" {
		t.Errorf("UnloadingLocation = %q, want carried-forward 구미공단", records[0].UnloadingLocation)
	}
}

func TestParser_EmptySheet(t *testing.T) {
	now := time.Now()
	sheet := grid.RawSheet{Rows: []grid.Row{{Cells: []grid.Cell{{Value: "제목"}}}}}
	m, err := grid.Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if records := NewParser(DefaultLayout()).Parse(m, sheet.Rows, 0, "f", "t", now); len(records) != 0 {
		t.Fatalf("Parse() on header-only sheet produced %d records, want 0", len(records))
	}
}
