package grid

// ResolveMemo finds the note attached to the merged block covering
// (row, col). Merge semantics only attach a note to one physical cell of
// a block, and which cell that is varies by authoring tool, so the lookup
// compensates in three steps:
//
//  1. the cell's own note, when present;
//  2. when the filled matrix value at (row, col) is non-empty, scan the
//     run of adjacent rows showing the same filled value in that column,
//     upward first and then downward, and take the first note found;
//  3. when the filled value is empty (a safety net, step 2 normally
//     applies), scan downward through later rows for the first note.
//
// No note in either direction is a valid "no annotation" outcome, not an
// error.
func ResolveMemo(rows []Row, m Matrix, col, row int) (string, bool) {
	if note := noteAt(rows, row, col); note != "" {
		return note, true
	}

	if value := m.Value(row, col); value != "" {
		for r := row - 1; r >= 0; r-- {
			if m.Value(r, col) != value {
				break
			}
			if note := noteAt(rows, r, col); note != "" {
				return note, true
			}
		}
		for r := row + 1; r < len(rows); r++ {
			if m.Value(r, col) != value {
				break
			}
			if note := noteAt(rows, r, col); note != "" {
				return note, true
			}
		}
		return "", false
	}

	for r := row + 1; r < len(rows); r++ {
		if note := noteAt(rows, r, col); note != "" {
			return note, true
		}
	}
	return "", false
}

func noteAt(rows []Row, row, col int) string {
	if row < 0 || row >= len(rows) {
		return ""
	}
	cells := rows[row].Cells
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col].Note
}
