package grid

import "testing"

// mergedSheet builds the canonical memo scenario: rows 5..7 of column 1
// form one merged block displaying "LocA", with the note attached to a
// single physical row.
func mergedSheet(noteRow int) RawSheet {
	rows := make([]Row, 8)
	for r := range rows {
		rows[r] = Row{Cells: make([]Cell, 3)}
	}
	rows[5].Cells[1].Value = "LocA"
	rows[noteRow].Cells[1].Note = "gate 3, call ahead"
	return RawSheet{
		Rows:   rows,
		Merges: []MergeRange{{StartRow: 5, EndRow: 8, StartCol: 1, EndCol: 2}},
	}
}

func TestResolveMemo_MergedBlockAnyRow(t *testing.T) {
	tests := []struct {
		name    string
		noteRow int
	}{
		{"note on first row of block", 5},
		{"note on middle row of block", 6},
		{"note on last row of block", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := mergedSheet(tt.noteRow)
			m, err := Build(sheet)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			for row := 5; row <= 7; row++ {
				note, ok := ResolveMemo(sheet.Rows, m, 1, row)
				if !ok {
					t.Errorf("ResolveMemo(col=1, row=%d) found no note", row)
					continue
				}
				if note != "gate 3, call ahead" {
					t.Errorf("ResolveMemo(col=1, row=%d) = %q, want %q", row, note, "gate 3, call ahead")
				}
			}
		})
	}
}

func TestResolveMemo_StopsAtDifferentValue(t *testing.T) {
	rows := make([]Row, 6)
	for r := range rows {
		rows[r] = Row{Cells: make([]Cell, 2)}
	}
	rows[2].Cells[1].Value = "LocA"
	rows[2].Cells[1].Note = "note for LocA"
	rows[3].Cells[1].Value = "LocB"

	sheet := RawSheet{Rows: rows}
	m, err := Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Row 3 displays LocB; the LocA note two rows up must not leak in.
	if note, ok := ResolveMemo(rows, m, 1, 3); ok {
		t.Errorf("ResolveMemo(col=1, row=3) = %q, want no note", note)
	}
}

func TestResolveMemo_EmptyValueScansDown(t *testing.T) {
	rows := make([]Row, 5)
	for r := range rows {
		rows[r] = Row{Cells: make([]Cell, 2)}
	}
	rows[4].Cells[1].Note = "below"

	sheet := RawSheet{Rows: rows}
	m, err := Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	note, ok := ResolveMemo(rows, m, 1, 1)
	if !ok || note != "below" {
		t.Errorf("ResolveMemo(col=1, row=1) = %q, %v, want %q, true", note, ok, "below")
	}
}

func TestResolveMemo_NoneFound(t *testing.T) {
	rows := []Row{
		{Cells: make([]Cell, 2)},
		{Cells: make([]Cell, 2)},
	}
	sheet := RawSheet{Rows: rows}
	m, err := Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if note, ok := ResolveMemo(rows, m, 1, 0); ok {
		t.Errorf("ResolveMemo = %q, want no note", note)
	}
}
