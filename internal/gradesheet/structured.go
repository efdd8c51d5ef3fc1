package gradesheet

import "fmt"

// The structured class-record form carries a fixed three-row header block at
// spreadsheet rows 8-10 (zero-based indices 7-9): column titles, grading
// group labels, and the RAW/HPS/PS/WS sub-headers.
const (
	columnTitleRow = 7
	groupHeaderRow = 8
	subHeaderRow   = 9

	structuredDataRow = 10

	// Sheets wider than this are almost certainly carrying stray columns.
	softColumnLimit = 25
)

var studentNoAliases = []string{"student no.", "student no", "learner reference", "lrn"}

var studentNameAliases = []string{"student's name", "students name", "learner's name", "name of student"}

var groupHeaderLabels = []string{
	"written works 40%",
	"performance tasks 60%",
	"initial grade",
	"quarterly grade",
}

var subHeaderLabels = []string{"raw", "hps", "ps", "ws"}

// StructuredLayout records where the structural pass found the columns the
// row reader needs.
type StructuredLayout struct {
	NameColumn  int
	GradeColumn int
}

// IsStructured reports whether the grid even attempts the structured form:
// the column-title row must name the student column. Grids that do not are
// handed to the simple-form reader instead.
func IsStructured(grid Grid) bool {
	row := grid.Row(columnTitleRow)
	if row == nil {
		return false
	}
	for _, alias := range studentNameAliases {
		if _, ok := rowContains(row, alias); ok {
			return true
		}
	}
	return false
}

// ValidateStructured checks the three-row header block. Every missing label
// yields its own error so the uploader can fix the sheet in one pass; any
// error aborts reconciliation before a single data row is read. A column
// count beyond the soft limit is only a warning.
func ValidateStructured(grid Grid) (StructuredLayout, []string, []string) {
	var errs []string
	var warnings []string
	layout := StructuredLayout{NameColumn: -1, GradeColumn: -1}

	titleRow := grid.Row(columnTitleRow)
	if _, ok := anyAlias(titleRow, studentNoAliases); !ok {
		errs = append(errs, fmt.Sprintf("row %d: missing column title %q", columnTitleRow+1, "Student No."))
	}
	if col, ok := anyAlias(titleRow, studentNameAliases); ok {
		layout.NameColumn = col
	} else {
		errs = append(errs, fmt.Sprintf("row %d: missing column title %q", columnTitleRow+1, "Student's Name"))
	}

	groupRow := grid.Row(groupHeaderRow)
	for _, label := range groupHeaderLabels {
		col, ok := rowContains(groupRow, label)
		if !ok {
			errs = append(errs, fmt.Sprintf("row %d: missing group header %q", groupHeaderRow+1, label))
			continue
		}
		if label == "quarterly grade" {
			layout.GradeColumn = col
		}
	}

	subRow := grid.Row(subHeaderRow)
	for _, label := range subHeaderLabels {
		if _, ok := rowContains(subRow, label); !ok {
			errs = append(errs, fmt.Sprintf("row %d: missing sub-header %q", subHeaderRow+1, label))
		}
	}

	if cols := grid.MaxColumns(); cols > softColumnLimit {
		warnings = append(warnings, fmt.Sprintf("sheet has %d columns; expected at most %d", cols, softColumnLimit))
	}

	return layout, errs, warnings
}

func anyAlias(row []string, aliases []string) (int, bool) {
	for _, alias := range aliases {
		if col, ok := rowContains(row, alias); ok {
			return col, true
		}
	}
	return 0, false
}
