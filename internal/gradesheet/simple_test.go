package gradesheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractRowsWithHeader(t *testing.T) {
	grid := Grid{
		{"Student Name", "Grade", "Feedback"},
		{"Juan Dela Cruz", "88", "Good"},
		{"Maria Santos", "92.5", ""},
	}

	rows, structural, errs, warnings := ExtractRows(grid)
	require.Empty(t, structural)
	require.Empty(t, errs)
	require.Empty(t, warnings)
	require.Len(t, rows, 2)
	require.Equal(t, "Juan Dela Cruz", rows[0].Name)
	require.Equal(t, 88.0, rows[0].Grade)
	require.Equal(t, "Good", rows[0].Feedback)
	require.Equal(t, 92.5, rows[1].Grade)
}

func TestExtractRowsHeaderKeywordVariants(t *testing.T) {
	grid := Grid{
		{"Learner Name", "Score", "Remarks"},
		{"Juan Dela Cruz", "75", "late"},
	}

	rows, _, errs, _ := ExtractRows(grid)
	require.Empty(t, errs)
	require.Len(t, rows, 1)
	require.Equal(t, "Juan Dela Cruz", rows[0].Name)
	require.Equal(t, 75.0, rows[0].Grade)
	require.Equal(t, "late", rows[0].Feedback)
}

func TestExtractRowsHeaderless(t *testing.T) {
	grid := Grid{
		{"Juan Dela Cruz", "88", "ok"},
		{"Maria Santos", "90", ""},
	}

	rows, _, errs, _ := ExtractRows(grid)
	require.Empty(t, errs)
	require.Len(t, rows, 2)
	require.Equal(t, 0, rows[0].Index)
	require.Equal(t, "ok", rows[0].Feedback)
}

func TestExtractRowsBlankGradeWarns(t *testing.T) {
	grid := Grid{
		{"Name", "Grade"},
		{"Juan Dela Cruz", ""},
		{"Maria Santos", "90"},
	}

	rows, _, errs, warnings := ExtractRows(grid)
	require.Empty(t, errs)
	require.Len(t, rows, 1)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].String(), "no grade given")
	require.Contains(t, warnings[0].String(), "row 2")
}

func TestExtractRowsInvalidGrade(t *testing.T) {
	grid := Grid{
		{"Name", "Grade"},
		{"Juan Dela Cruz", "forty"},
	}

	rows, _, errs, _ := ExtractRows(grid)
	require.Empty(t, rows)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].String(), "not a number")
}

func TestExtractRowsGradeOutOfRange(t *testing.T) {
	grid := Grid{
		{"Name", "Grade"},
		{"Juan Dela Cruz", "120"},
		{"Maria Santos", "-5"},
	}

	rows, _, errs, _ := ExtractRows(grid)
	require.Empty(t, rows)
	require.Len(t, errs, 2)
	require.Contains(t, errs[0].String(), "out of range")
}

func TestExtractRowsPercentSuffix(t *testing.T) {
	grid := Grid{
		{"Name", "Grade"},
		{"Juan Dela Cruz", "88%"},
	}

	rows, _, errs, _ := ExtractRows(grid)
	require.Empty(t, errs)
	require.Len(t, rows, 1)
	require.Equal(t, 88.0, rows[0].Grade)
}

func TestExtractRowsSkipsNamelessAndEmptyRows(t *testing.T) {
	grid := Grid{
		{"Name", "Grade"},
		{"Juan Dela Cruz", "88"},
		{},
		{"", "95"},
		{"TOTAL", ""},
	}

	rows, _, errs, warnings := ExtractRows(grid)
	require.Empty(t, errs)
	require.Len(t, rows, 1)

	// The totals row has a name cell but no grade, so it warns; the
	// nameless row is silently dropped.
	require.Len(t, warnings, 1)
}

func TestNormalizeFoldsTypographicQuotes(t *testing.T) {
	require.Equal(t, "student's name", normalize("  Student’s   Name "))
	require.True(t, cellMatches("STUDENT’S NAME", "student's name"))
}
