package dto

import (
	"encoding/json"
	"time"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// QuizSubmitRequest carries a student's answers, index-aligned to the quiz's
// question list.
type QuizSubmitRequest struct {
	StudentID uint          `json:"student_id" validate:"required,gt=0"`
	Answers   []interface{} `json:"answers" validate:"required"`
}

// QuizResultResponse reports the auto-graded outcome of one attempt.
type QuizResultResponse struct {
	ResponseID     uint                   `json:"response_id"`
	ActivityID     uint                   `json:"activity_id"`
	StudentID      uint                   `json:"student_id"`
	Score          int                    `json:"score"`
	Points         int                    `json:"points"`
	Graded         bool                   `json:"graded"`
	CheckedAnswers []models.CheckedAnswer `json:"checked_answers"`
	SubmittedAt    time.Time              `json:"submitted_at"`
}

// NewQuizResultResponse converts a QuizResponse model into a DTO.
func NewQuizResultResponse(model models.QuizResponse) QuizResultResponse {
	response := QuizResultResponse{
		ResponseID:  model.ID,
		ActivityID:  model.ActivityID,
		StudentID:   model.StudentID,
		Score:       model.Score,
		Graded:      model.Graded,
		SubmittedAt: model.SubmittedAt,
	}

	if model.Activity.ID != 0 {
		response.Points = model.Activity.Points
	}

	var checked []models.CheckedAnswer
	if err := json.Unmarshal(model.CheckedAnswers, &checked); err == nil {
		response.CheckedAnswers = checked
	}

	return response
}
