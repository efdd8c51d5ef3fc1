package dto

import (
	"time"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// RosterContext identifies the roster a grade import is scoped to.
type RosterContext struct {
	Section    string `json:"section" validate:"required"`
	Track      string `json:"track" validate:"required"`
	Strand     string `json:"strand" validate:"required"`
	GradeLevel string `json:"grade_level" validate:"required"`
	SchoolYear string `json:"school_year" validate:"required"`
	Term       string `json:"term" validate:"required"`
}

// Filter converts the context into a roster query.
func (c RosterContext) Filter() models.RosterFilter {
	return models.RosterFilter{
		Section:    c.Section,
		Track:      c.Track,
		Strand:     c.Strand,
		GradeLevel: c.GradeLevel,
		SchoolYear: c.SchoolYear,
		Term:       c.Term,
	}
}

// GradeImportRequest carries one decoded spreadsheet and its roster scope.
type GradeImportRequest struct {
	ActivityID uint          `json:"activity_id" validate:"required,gt=0"`
	Context    RosterContext `json:"context" validate:"required"`
	Grid       [][]string    `json:"grid" validate:"required,min=1"`
}

// AppliedGrade reports one accepted row.
type AppliedGrade struct {
	StudentID   uint    `json:"student_id"`
	StudentName string  `json:"student_name"`
	Grade       float64 `json:"grade"`
	Feedback    string  `json:"feedback,omitempty"`
}

// GradeImportResult is the reconciliation outcome for one upload. Success
// requires zero errors and at least one applied grade; row errors and
// warnings are collected rather than stopping at the first problem.
type GradeImportResult struct {
	Success  bool           `json:"success"`
	BatchID  string         `json:"batch_id,omitempty"`
	Grades   []AppliedGrade `json:"grades"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
}

// GradingBatchResponse serializes a stored batch.
type GradingBatchResponse struct {
	ID         string         `json:"id"`
	ActivityID uint           `json:"activity_id"`
	Context    RosterContext  `json:"context"`
	CreatedBy  uint           `json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
	Grades     []AppliedGrade `json:"grades"`
}

// NewGradingBatchResponse converts a GradingBatch model into a DTO.
func NewGradingBatchResponse(model models.GradingBatch) GradingBatchResponse {
	response := GradingBatchResponse{
		ID:         model.ID,
		ActivityID: model.ActivityID,
		Context: RosterContext{
			Section:    model.Section,
			Track:      model.Track,
			Strand:     model.Strand,
			GradeLevel: model.GradeLevel,
			SchoolYear: model.SchoolYear,
			Term:       model.Term,
		},
		CreatedBy: model.CreatedBy,
		CreatedAt: model.CreatedAt,
	}

	for _, entry := range model.Entries {
		response.Grades = append(response.Grades, AppliedGrade{
			StudentID:   entry.StudentID,
			StudentName: entry.StudentName,
			Grade:       entry.Grade,
			Feedback:    entry.Feedback,
		})
	}

	return response
}

// TemplateResponse returns a generated grade-entry grid.
type TemplateResponse struct {
	Grid [][]string `json:"grid"`
}
