package models

import "time"

// GradingBatch groups the grades applied together from one spreadsheet
// import, tied to one activity and one roster filter.
type GradingBatch struct {
	ID         string              `gorm:"primaryKey;size:36" json:"id"`
	ActivityID uint                `gorm:"not null;index" json:"activity_id"`
	Section    string              `gorm:"size:64;not null" json:"section"`
	Track      string              `gorm:"size:64;not null" json:"track"`
	Strand     string              `gorm:"size:64;not null" json:"strand"`
	GradeLevel string              `gorm:"size:16;not null" json:"grade_level"`
	SchoolYear string              `gorm:"size:16;not null" json:"school_year"`
	Term       string              `gorm:"size:16;not null" json:"term"`
	CreatedBy  uint                `gorm:"not null" json:"created_by"`
	CreatedAt  time.Time           `json:"created_at"`
	Entries    []GradingBatchEntry `gorm:"foreignKey:BatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"entries"`
}

// GradingBatchEntry records one applied grade together with the submission
// state it replaced, so deleting the batch can restore it exactly.
type GradingBatchEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BatchID      string    `gorm:"size:36;not null;index" json:"batch_id"`
	SubmissionID uint      `gorm:"not null" json:"submission_id"`
	StudentID    uint      `gorm:"not null" json:"student_id"`
	StudentName  string    `gorm:"size:255;not null" json:"student_name"`
	Grade        float64   `gorm:"not null" json:"grade"`
	Feedback     string    `gorm:"type:text" json:"feedback"`
	PrevGrade    *float64  `json:"prev_grade"`
	PrevFeedback string    `gorm:"type:text" json:"prev_feedback"`
	PrevStatus   string    `gorm:"size:32;not null" json:"prev_status"`
	CreatedAt    time.Time `json:"created_at"`
}
