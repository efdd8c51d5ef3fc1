package dto

import (
	"time"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// SubmissionCreateRequest describes the payload for turning in an assignment.
// Files are attached separately as multipart uploads; links and context ride
// in the form body.
type SubmissionCreateRequest struct {
	ActivityID uint     `json:"activity_id" form:"activity_id" validate:"required,gt=0"`
	StudentID  uint     `json:"student_id" form:"student_id" validate:"required,gt=0"`
	Links      []string `json:"links" form:"links" validate:"omitempty,dive,url"`
	Context    string   `json:"context" form:"context"`
}

// SubmissionGradeRequest grades one submission directly.
type SubmissionGradeRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0"`
	Feedback string  `json:"feedback" validate:"omitempty,min=3"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	ActivityID *uint   `query:"activity_id"`
	StudentID  *uint   `query:"student_id"`
	Status     *string `query:"status" validate:"omitempty,oneof=turned-in graded"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID          uint         `json:"id"`
	ActivityID  uint         `json:"activity_id"`
	StudentID   uint         `json:"student_id"`
	FileURLs    []string     `json:"file_urls"`
	Links       []string     `json:"links"`
	Context     string       `json:"context"`
	Status      string       `json:"status"`
	Grade       *float64     `json:"grade"`
	Feedback    string       `json:"feedback"`
	GradedBy    *uint        `json:"graded_by"`
	GradedAt    *time.Time   `json:"graded_at"`
	SubmittedAt time.Time    `json:"submitted_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Activity    ActivityLite `json:"activity"`
	Student     StudentLite  `json:"student"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:          model.ID,
		ActivityID:  model.ActivityID,
		StudentID:   model.StudentID,
		FileURLs:    model.FileURLs,
		Links:       model.Links,
		Context:     model.Context,
		Status:      model.Status,
		Grade:       model.Grade,
		Feedback:    model.Feedback,
		GradedBy:    model.GradedBy,
		GradedAt:    model.GradedAt,
		SubmittedAt: model.SubmittedAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Activity.ID != 0 {
		response.Activity = NewActivityLite(model.Activity)
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.FullName(),
			Email: model.Student.Email,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
