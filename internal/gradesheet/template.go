package gradesheet

// TemplateHeader is the header row of generated grade templates. It uses the
// simple form on purpose: re-import goes through simple-form header
// detection, so a filled template round-trips without the structured block.
var TemplateHeader = []string{"Student's Name", "Grade", "Feedback"}

// Template builds a minimal grade-entry grid with one row per roster student.
func Template(names []string) Grid {
	grid := make(Grid, 0, len(names)+1)
	grid = append(grid, append([]string(nil), TemplateHeader...))
	for _, name := range names {
		grid = append(grid, []string{name, "", ""})
	}
	return grid
}
