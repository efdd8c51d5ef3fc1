// Package gradesheet implements the pure grid-handling half of spreadsheet
// grade reconciliation: structural validation of the DepEd-style class record
// layout, fallback simple-form detection, row extraction and fuzzy student
// name matching. It never touches storage; callers hand it an already-decoded
// two-dimensional grid of cell values.
package gradesheet

import "strings"

// Grid is a decoded spreadsheet: rows of cell values, row 0 first.
type Grid [][]string

// Cell returns the trimmed cell value, tolerating ragged rows.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	if col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// Row returns the given row, or nil when out of range.
func (g Grid) Row(row int) []string {
	if row < 0 || row >= len(g) {
		return nil
	}
	return g[row]
}

// MaxColumns returns the widest row length in the grid.
func (g Grid) MaxColumns() int {
	max := 0
	for _, row := range g {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

var quoteReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

// normalize folds a header cell for alias comparison: lowercase, typographic
// quotes mapped to ASCII, runs of whitespace collapsed to single spaces.
func normalize(cell string) string {
	folded := strings.ToLower(quoteReplacer.Replace(cell))
	return strings.Join(strings.Fields(folded), " ")
}

// cellMatches reports whether the normalized cell contains the alias.
func cellMatches(cell, alias string) bool {
	normalized := normalize(cell)
	if normalized == "" {
		return false
	}
	return strings.Contains(normalized, normalize(alias))
}

// rowContains reports whether any cell in the row matches the alias, and the
// matching column index. Merged cells decode as empty neighbours, so label
// position inside the row is not assumed.
func rowContains(row []string, alias string) (int, bool) {
	for col, cell := range row {
		if cellMatches(cell, alias) {
			return col, true
		}
	}
	return 0, false
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
