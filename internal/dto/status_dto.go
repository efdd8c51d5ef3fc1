package dto

import "time"

// ActivityStatusResponse is the resolved completion status for one
// (activity, student) pair.
type ActivityStatusResponse struct {
	ActivityID uint       `json:"activity_id"`
	StudentID  uint       `json:"student_id"`
	Status     string     `json:"status"`
	Bucket     string     `json:"bucket"`
	DueDate    *time.Time `json:"due_date"`
	Grade      *float64   `json:"grade,omitempty"`
	Score      *int       `json:"score,omitempty"`
}

// ProgressItem is one activity entry in a student's progress listing.
type ProgressItem struct {
	Activity ActivityLite `json:"activity"`
	Status   string       `json:"status"`
	Bucket   string       `json:"bucket"`
	Grade    *float64     `json:"grade,omitempty"`
	Score    *int         `json:"score,omitempty"`
	Feedback string       `json:"feedback,omitempty"`
}

// ProgressSummary aggregates a student's buckets.
type ProgressSummary struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	PastDue   int `json:"past_due"`
	ToGrade   int `json:"to_grade"`
	Completed int `json:"completed"`
}

// StudentProgressResponse lists every visible activity with its status.
type StudentProgressResponse struct {
	StudentID uint            `json:"student_id"`
	Summary   ProgressSummary `json:"summary"`
	Items     []ProgressItem  `json:"items"`
}

// ActivitySummary aggregates one activity across a class roster.
type ActivitySummary struct {
	Activity     ActivityLite `json:"activity"`
	Assigned     int          `json:"assigned"`
	Upcoming     int          `json:"upcoming"`
	PastDue      int          `json:"past_due"`
	ToGrade      int          `json:"to_grade"`
	Completed    int          `json:"completed"`
	AverageGrade *float64     `json:"average_grade,omitempty"`
}

// ClassSummaryResponse is the teacher-facing rollup of a class's activities.
type ClassSummaryResponse struct {
	ClassID    uint              `json:"class_id"`
	Activities []ActivitySummary `json:"activities"`
}
