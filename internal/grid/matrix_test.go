package grid

import (
	"errors"
	"testing"

	"baecha/internal/core"
)

func rowOf(values ...string) Row {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Value: v}
	}
	return Row{Cells: cells}
}

func TestBuild_MergeFill(t *testing.T) {
	sheet := RawSheet{
		Rows: []Row{
			rowOf("X", "", "c"),
			rowOf("", "", ""),
			rowOf("y", "", ""),
		},
		Merges: []MergeRange{{StartRow: 0, EndRow: 2, StartCol: 0, EndCol: 2}},
	}

	m, err := Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, pos := range [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		if got := m.Value(pos[0], pos[1]); got != "X" {
			t.Errorf("Value(%d,%d) = %q, want %q", pos[0], pos[1], got, "X")
		}
	}
	if got := m.Value(2, 0); got != "y" {
		t.Errorf("Value(2,0) = %q, want %q (outside merge range)", got, "y")
	}
}

func TestBuild_RaggedRowsPadded(t *testing.T) {
	sheet := RawSheet{
		Rows: []Row{
			rowOf("a", "b", "c", "d"),
			rowOf("e"),
			{},
		},
	}

	m, err := Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if m.Rows() != 3 || m.Cols() != 4 {
		t.Fatalf("dimensions = %dx%d, want 3x4", m.Rows(), m.Cols())
	}
	if got := m.Value(1, 3); got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
	if got := m.Value(2, 0); got != "" {
		t.Errorf("empty row cell = %q, want empty", got)
	}
}

func TestBuild_OverlappingMergesLastWins(t *testing.T) {
	sheet := RawSheet{
		Rows: []Row{
			rowOf("A", "", ""),
			rowOf("B", "", ""),
		},
		Merges: []MergeRange{
			{StartRow: 0, EndRow: 2, StartCol: 0, EndCol: 3},
			{StartRow: 1, EndRow: 2, StartCol: 0, EndCol: 3},
		},
	}

	m, err := Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// First merge stamps "A" everywhere including (1,0); the second
	// merge's master is therefore "A" now, and it wins for row 1.
	if got := m.Value(1, 2); got != "A" {
		t.Errorf("Value(1,2) = %q, want %q", got, "A")
	}
	if got := m.Value(0, 1); got != "A" {
		t.Errorf("Value(0,1) = %q, want %q", got, "A")
	}
}

func TestBuild_MergeOutsideGridIgnored(t *testing.T) {
	sheet := RawSheet{
		Rows:   []Row{rowOf("v")},
		Merges: []MergeRange{{StartRow: 0, EndRow: 5, StartCol: 0, EndCol: 2}},
	}

	m, err := Build(sheet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.Rows() != 1 {
		t.Errorf("Rows() = %d, want 1 (merge must not grow the grid)", m.Rows())
	}
	if got := m.Value(0, 1); got != "v" {
		t.Errorf("Value(0,1) = %q, want %q", got, "v")
	}
}

func TestBuild_NoRowData(t *testing.T) {
	_, err := Build(RawSheet{Title: "3월5일"})
	if !errors.Is(err, core.ErrSheetDataUnavailable) {
		t.Fatalf("Build() error = %v, want ErrSheetDataUnavailable", err)
	}
}

func TestMatrix_ValueOutOfBounds(t *testing.T) {
	m, err := Build(RawSheet{Rows: []Row{rowOf("a")}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := m.Value(-1, 0); got != "" {
		t.Errorf("Value(-1,0) = %q, want empty", got)
	}
	if got := m.Value(0, 99); got != "" {
		t.Errorf("Value(0,99) = %q, want empty", got)
	}
}
