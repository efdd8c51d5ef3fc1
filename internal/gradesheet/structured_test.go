package gradesheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// classRecordGrid builds a minimal valid class-record sheet: the three-row
// header block at its fixed position followed by the given data rows.
func classRecordGrid(dataRows ...[]string) Grid {
	grid := make(Grid, structuredDataRow)
	for i := range grid {
		grid[i] = []string{""}
	}
	grid[columnTitleRow] = []string{"Student No.", "Student's Name"}
	grid[groupHeaderRow] = []string{"", "", "Written Works 40%", "Performance Tasks 60%", "Initial Grade", "Quarterly Grade"}
	grid[subHeaderRow] = []string{"", "", "RAW", "HPS", "PS", "WS"}
	return append(grid, dataRows...)
}

func TestIsStructured(t *testing.T) {
	require.True(t, IsStructured(classRecordGrid()))

	simple := Grid{
		{"Name", "Grade"},
		{"Juan Dela Cruz", "88"},
	}
	require.False(t, IsStructured(simple))
}

func TestValidateStructuredValidSheet(t *testing.T) {
	layout, errs, warnings := ValidateStructured(classRecordGrid())
	require.Empty(t, errs)
	require.Empty(t, warnings)
	require.Equal(t, 1, layout.NameColumn)
	require.Equal(t, 5, layout.GradeColumn)
}

func TestValidateStructuredReportsEveryMissingLabel(t *testing.T) {
	grid := classRecordGrid()
	grid[columnTitleRow] = []string{"", "Student's Name"}
	grid[groupHeaderRow] = []string{""}
	grid[subHeaderRow] = []string{""}

	_, errs, _ := ValidateStructured(grid)

	// One error per missing label: the student number title, all four group
	// headers and all four sub-headers.
	require.Len(t, errs, 9)
	require.Contains(t, errs[0], "Student No.")
}

func TestValidateStructuredToleratesMergedCellOffsets(t *testing.T) {
	grid := classRecordGrid()
	// Merged cells decode as empty neighbours shifting labels right.
	grid[columnTitleRow] = []string{"", "", "Student No.", "", "Student's Name"}

	layout, errs, _ := ValidateStructured(grid)
	require.Empty(t, errs)
	require.Equal(t, 4, layout.NameColumn)
}

func TestValidateStructuredColumnLimitWarning(t *testing.T) {
	wide := make([]string, softColumnLimit+1)
	wide[0] = "x"
	grid := append(classRecordGrid(), wide)

	_, errs, warnings := ValidateStructured(grid)
	require.Empty(t, errs)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "columns")
}

func TestExtractRowsStructured(t *testing.T) {
	grid := classRecordGrid(
		[]string{"1", "Juan Dela Cruz", "", "", "", "88"},
		[]string{"2", "Maria Santos", "", "", "", "92"},
	)

	rows, structural, errs, warnings := ExtractRows(grid)
	require.Empty(t, structural)
	require.Empty(t, errs)
	require.Empty(t, warnings)
	require.Len(t, rows, 2)
	require.Equal(t, structuredDataRow, rows[0].Index)
	require.Equal(t, "Juan Dela Cruz", rows[0].Name)
	require.Equal(t, 88.0, rows[0].Grade)
	require.Equal(t, "Maria Santos", rows[1].Name)
}

func TestExtractRowsStructuredAbortsOnStructuralErrors(t *testing.T) {
	grid := classRecordGrid(
		[]string{"1", "Juan Dela Cruz", "", "", "", "88"},
	)
	grid[groupHeaderRow] = []string{""}

	rows, structural, errs, _ := ExtractRows(grid)
	require.Empty(t, rows)
	require.Empty(t, errs)
	require.NotEmpty(t, structural)
}
