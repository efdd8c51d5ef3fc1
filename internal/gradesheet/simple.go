package gradesheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one extracted grade entry, still unresolved against the roster.
type Row struct {
	Index    int
	Name     string
	Grade    float64
	Feedback string
}

// RowIssue carries a per-row error or warning with enough context to fix the
// source sheet.
type RowIssue struct {
	Index   int
	Message string
}

func (i RowIssue) String() string {
	return fmt.Sprintf("row %d: %s", i.Index+1, i.Message)
}

var nameKeywords = []string{"student", "name"}

var gradeKeywords = []string{"grade", "score", "mark"}

var feedbackKeywords = []string{"feedback", "comment", "remark"}

// simpleLayout maps the columns of the simple form.
type simpleLayout struct {
	NameColumn     int
	GradeColumn    int
	FeedbackColumn int
	DataStart      int
}

// detectSimpleLayout finds a header row by keyword match. When no header row
// exists the fixed order [name, grade, feedback] is assumed from the top.
func detectSimpleLayout(grid Grid) simpleLayout {
	for rowIdx, row := range grid {
		nameCol, nameOK := anyKeyword(row, nameKeywords)
		gradeCol, gradeOK := anyKeyword(row, gradeKeywords)
		if !nameOK || !gradeOK {
			continue
		}

		layout := simpleLayout{
			NameColumn:     nameCol,
			GradeColumn:    gradeCol,
			FeedbackColumn: -1,
			DataStart:      rowIdx + 1,
		}
		if feedbackCol, ok := anyKeyword(row, feedbackKeywords); ok {
			layout.FeedbackColumn = feedbackCol
		}
		return layout
	}

	return simpleLayout{NameColumn: 0, GradeColumn: 1, FeedbackColumn: 2, DataStart: 0}
}

func anyKeyword(row []string, keywords []string) (int, bool) {
	for col, cell := range row {
		normalized := normalize(cell)
		if normalized == "" {
			continue
		}
		for _, keyword := range keywords {
			if strings.Contains(normalized, keyword) {
				return col, true
			}
		}
	}
	return 0, false
}

// ExtractRows reads grade rows from the grid. Structured grids are validated
// first and read from the fixed data region below the header block; anything
// else goes through simple-form detection. Structural errors abort with no
// rows; row-level problems accumulate as errors or warnings per the row.
func ExtractRows(grid Grid) ([]Row, []string, []RowIssue, []RowIssue) {
	if IsStructured(grid) {
		layout, structuralErrs, warnings := ValidateStructured(grid)
		if len(structuralErrs) > 0 {
			return nil, structuralErrs, nil, nil
		}

		feedbackColumn := -1
		rows, rowErrs, rowWarnings := readRows(grid, layout.NameColumn, layout.GradeColumn, feedbackColumn, structuredDataRow)

		var structWarnings []RowIssue
		for _, w := range warnings {
			structWarnings = append(structWarnings, RowIssue{Index: -1, Message: w})
		}
		return rows, nil, rowErrs, append(structWarnings, rowWarnings...)
	}

	layout := detectSimpleLayout(grid)
	rows, rowErrs, rowWarnings := readRows(grid, layout.NameColumn, layout.GradeColumn, layout.FeedbackColumn, layout.DataStart)
	return rows, nil, rowErrs, rowWarnings
}

func readRows(grid Grid, nameCol, gradeCol, feedbackCol, start int) ([]Row, []RowIssue, []RowIssue) {
	var rows []Row
	var errs []RowIssue
	var warnings []RowIssue

	for idx := start; idx < len(grid); idx++ {
		if rowIsEmpty(grid.Row(idx)) {
			continue
		}

		name := grid.Cell(idx, nameCol)
		if name == "" {
			// Rows without a student name are decoration (totals, footers)
			// and are skipped without complaint.
			continue
		}

		gradeText := grid.Cell(idx, gradeCol)
		if gradeText == "" {
			warnings = append(warnings, RowIssue{Index: idx, Message: fmt.Sprintf("no grade given for %q; row skipped", name)})
			continue
		}

		grade, err := parseGrade(gradeText)
		if err != nil {
			errs = append(errs, RowIssue{Index: idx, Message: fmt.Sprintf("invalid grade %q for %q: %v", gradeText, name, err)})
			continue
		}

		row := Row{Index: idx, Name: name, Grade: grade}
		if feedbackCol >= 0 {
			row.Feedback = grid.Cell(idx, feedbackCol)
		}
		rows = append(rows, row)
	}

	return rows, errs, warnings
}

func parseGrade(text string) (float64, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(text), "%")
	grade, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if grade < 0 || grade > 100 {
		return 0, fmt.Errorf("out of range 0-100")
	}
	return grade, nil
}
