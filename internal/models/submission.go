package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is a student's recorded attempt at an assignment activity. At
// most one row exists per (activity, student), enforced by the composite
// unique index so concurrent submits cannot slip a duplicate past a pre-check.
type Submission struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	ActivityID  uint                        `gorm:"not null;uniqueIndex:idx_submission_pair" json:"activity_id"`
	StudentID   uint                        `gorm:"not null;uniqueIndex:idx_submission_pair" json:"student_id"`
	FileURLs    datatypes.JSONSlice[string] `json:"file_urls"`
	Links       datatypes.JSONSlice[string] `json:"links"`
	Context     string                      `gorm:"type:text" json:"context"`
	Status      string                      `gorm:"size:32;not null" json:"status"`
	Grade       *float64                    `json:"grade"`
	Feedback    string                      `gorm:"type:text" json:"feedback"`
	GradedBy    *uint                       `json:"graded_by"`
	GradedAt    *time.Time                  `json:"graded_at"`
	SubmittedAt time.Time                   `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	Activity    Activity                    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"activity"`
	Student     User                        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

const (
	// SubmissionStatusTurnedIn indicates the work is in but not graded.
	SubmissionStatusTurnedIn = "turned-in"
	// SubmissionStatusGraded indicates the submission has been evaluated.
	SubmissionStatusGraded = "graded"
)

// IsGraded reports whether the submission has a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
