package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// QuestionPayload describes one quiz question on create/update.
type QuestionPayload struct {
	Type           string         `json:"type" validate:"required,oneof=multiple truefalse identification"`
	Text           string         `json:"text" validate:"required"`
	Options        []string       `json:"options" validate:"omitempty,dive,required"`
	CorrectAnswers datatypes.JSON `json:"correct_answers" validate:"required"`
	Points         int            `json:"points" validate:"required,gte=1"`
}

// ActivityCreateRequest describes the payload for creating an activity.
type ActivityCreateRequest struct {
	Kind        string            `json:"kind" validate:"required,oneof=assignment quiz"`
	Title       string            `json:"title" validate:"required,min=3"`
	Description string            `json:"description"`
	Points      int               `json:"points" validate:"omitempty,gte=0"`
	DueDate     *string           `json:"due_date" validate:"omitempty"`
	PostAt      string            `json:"post_at" validate:"required"`
	Questions   []QuestionPayload `json:"questions" validate:"omitempty,dive"`
}

// ActivityUpdateRequest carries creator-only edits.
type ActivityUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Description *string `json:"description"`
	Points      *int    `json:"points" validate:"omitempty,gte=0"`
	DueDate     *string `json:"due_date"`
	PostAt      *string `json:"post_at"`
}

// ClassAssignmentRequest targets an activity at part of one class.
type ClassAssignmentRequest struct {
	ClassID    uint   `json:"class_id" validate:"required,gt=0"`
	StudentIDs []uint `json:"student_ids" validate:"required,min=1,dive,gt=0"`
}

// MarkViewedRequest records that a student opened an activity.
type MarkViewedRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
}

// QuestionResponse serializes a question without leaking the answer key.
type QuestionResponse struct {
	ID       uint     `json:"id"`
	Position int      `json:"position"`
	Type     string   `json:"type"`
	Text     string   `json:"text"`
	Options  []string `json:"options,omitempty"`
	Points   int      `json:"points"`
}

// ClassAssignmentResponse serializes one class target.
type ClassAssignmentResponse struct {
	ClassID    uint   `json:"class_id"`
	StudentIDs []uint `json:"student_ids"`
}

// ActivityResponse is returned to API clients.
type ActivityResponse struct {
	ID               uint                      `json:"id"`
	Kind             string                    `json:"kind"`
	Title            string                    `json:"title"`
	Description      string                    `json:"description"`
	Points           int                       `json:"points"`
	DueDate          *time.Time                `json:"due_date"`
	PostAt           time.Time                 `json:"post_at"`
	CreatedBy        uint                      `json:"created_by"`
	ClassAssignments []ClassAssignmentResponse `json:"class_assignments"`
	Questions        []QuestionResponse        `json:"questions,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// ActivityLite summarizes an activity inside other responses.
type ActivityLite struct {
	ID      uint       `json:"id"`
	Kind    string     `json:"kind"`
	Title   string     `json:"title"`
	Points  int        `json:"points"`
	DueDate *time.Time `json:"due_date"`
}

// NewActivityResponse converts an Activity model into a DTO.
func NewActivityResponse(model models.Activity) ActivityResponse {
	response := ActivityResponse{
		ID:          model.ID,
		Kind:        string(model.Kind),
		Title:       model.Title,
		Description: model.Description,
		Points:      model.Points,
		DueDate:     model.DueDate,
		PostAt:      model.PostAt,
		CreatedBy:   model.CreatedBy,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	for _, ca := range model.ClassAssignments {
		response.ClassAssignments = append(response.ClassAssignments, ClassAssignmentResponse{
			ClassID:    ca.ClassID,
			StudentIDs: ca.StudentIDs,
		})
	}

	for _, question := range model.Questions {
		response.Questions = append(response.Questions, QuestionResponse{
			ID:       question.ID,
			Position: question.Position,
			Type:     string(question.Type),
			Text:     question.Text,
			Options:  question.Options,
			Points:   question.Points,
		})
	}

	return response
}

// NewActivityLite builds the embedded summary form.
func NewActivityLite(model models.Activity) ActivityLite {
	return ActivityLite{
		ID:      model.ID,
		Kind:    string(model.Kind),
		Title:   model.Title,
		Points:  model.Points,
		DueDate: model.DueDate,
	}
}

// NewActivityResponseSlice converts activity models into DTOs.
func NewActivityResponseSlice(activities []models.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, NewActivityResponse(activity))
	}

	return responses
}
