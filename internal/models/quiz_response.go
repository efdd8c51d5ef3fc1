package models

import (
	"time"

	"gorm.io/datatypes"
)

// CheckedAnswer is the per-question audit entry produced by auto-grading,
// preserved on the response for later review.
type CheckedAnswer struct {
	Correct       bool        `json:"correct"`
	StudentAnswer interface{} `json:"student_answer"`
	CorrectAnswer interface{} `json:"correct_answer"`
}

// QuizResponse is a student's single attempt at a quiz. The composite unique
// index rejects a second attempt at the storage layer; the service surfaces
// that as an "already submitted" error rather than overwriting.
type QuizResponse struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ActivityID     uint           `gorm:"not null;uniqueIndex:idx_response_pair" json:"activity_id"`
	StudentID      uint           `gorm:"not null;uniqueIndex:idx_response_pair" json:"student_id"`
	Answers        datatypes.JSON `gorm:"not null" json:"answers"`
	Score          int            `gorm:"not null" json:"score"`
	Graded         bool           `gorm:"not null" json:"graded"`
	CheckedAnswers datatypes.JSON `gorm:"not null" json:"checked_answers"`
	SubmittedAt    time.Time      `gorm:"not null" json:"submitted_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Activity       Activity       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"activity"`
	Student        User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
