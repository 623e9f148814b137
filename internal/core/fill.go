package core

// fill.go implements carry-forward for the sparse metadata columns.
// The rating sheets fill PlanCode, RateZone and the effective dates on
// the first row of a block only; every row of the output needs a value.

// forwardFill replaces each blank cell in the given column with the
// nearest preceding non-blank value. Cells before the first non-blank
// value stay blank and propagate as blank into the output rows.
func forwardFill(rows [][]string, col int) {
	last := ""
	for i := range rows {
		if col >= len(rows[i]) {
			// Ragged row: pad so the carried value has somewhere to live.
			padded := make([]string, col+1)
			copy(padded, rows[i])
			rows[i] = padded
		}
		if CleanCell(rows[i][col]) == "" {
			rows[i][col] = last
		} else {
			rows[i][col] = CleanCell(rows[i][col])
			last = rows[i][col]
		}
	}
}
