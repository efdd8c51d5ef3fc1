package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityKind discriminates the activity union.
type ActivityKind string

const (
	// KindAssignment is a free-form activity graded by hand.
	KindAssignment ActivityKind = "assignment"
	// KindQuiz is an auto-graded activity with an ordered question list.
	KindQuiz ActivityKind = "quiz"
)

// Quiz point totals must stay within this range.
const (
	QuizPointsMin = 1
	QuizPointsMax = 100
)

// Activity represents an assignment or quiz targeted at one or more classes.
type Activity struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	Kind             ActivityKind      `gorm:"size:16;not null;index" json:"kind"`
	Title            string            `gorm:"size:255;not null" json:"title"`
	Description      string            `gorm:"type:text" json:"description"`
	Points           int               `gorm:"not null" json:"points"`
	DueDate          *time.Time        `json:"due_date"`
	PostAt           time.Time         `gorm:"not null" json:"post_at"`
	CreatedBy        uint              `gorm:"not null;index" json:"created_by"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	ClassAssignments []ClassAssignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"class_assignments"`
	Questions        []Question        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions,omitempty"`
	Views            []ActivityView    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"views,omitempty"`
}

// ClassAssignment targets an activity at a subset of one class's students.
type ClassAssignment struct {
	ID         uint                      `gorm:"primaryKey" json:"id"`
	ActivityID uint                      `gorm:"not null;uniqueIndex:idx_activity_class" json:"activity_id"`
	ClassID    uint                      `gorm:"not null;uniqueIndex:idx_activity_class" json:"class_id"`
	StudentIDs datatypes.JSONSlice[uint] `gorm:"not null" json:"student_ids"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// ActivityView is evidence that a student opened an activity. The composite
// unique index gives the view set its dedup semantics under concurrent marks.
type ActivityView struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"not null;uniqueIndex:idx_activity_view" json:"activity_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_activity_view" json:"student_id"`
	ViewedAt   time.Time `gorm:"not null" json:"viewed_at"`
}

// QuestionType enumerates supported quiz question kinds.
type QuestionType string

const (
	// QuestionMultiple is multiple choice; CorrectAnswers holds option indices.
	QuestionMultiple QuestionType = "multiple"
	// QuestionTrueFalse is a boolean question; CorrectAnswers holds true/false.
	QuestionTrueFalse QuestionType = "truefalse"
	// QuestionIdentification is a free-text question matched exactly.
	QuestionIdentification QuestionType = "identification"
)

// Question is one entry in a quiz's ordered question list. CorrectAnswers is
// a JSON payload whose shape depends on Type: an index array for multiple
// choice, a bare boolean for truefalse, a bare string for identification.
type Question struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	ActivityID     uint                        `gorm:"not null;index" json:"activity_id"`
	Position       int                         `gorm:"not null" json:"position"`
	Type           QuestionType                `gorm:"size:16;not null" json:"type"`
	Text           string                      `gorm:"type:text;not null" json:"text"`
	Options        datatypes.JSONSlice[string] `json:"options,omitempty"`
	CorrectAnswers datatypes.JSON              `gorm:"not null" json:"correct_answers"`
	Points         int                         `gorm:"not null" json:"points"`
	CreatedAt      time.Time                   `json:"created_at"`
}

// IsQuiz reports whether the activity carries a question list.
func (a Activity) IsQuiz() bool {
	return a.Kind == KindQuiz
}

// IsPosted reports whether the activity is visible at the reference time.
func (a Activity) IsPosted(reference time.Time) bool {
	return !a.PostAt.After(reference)
}

// IsPastDue reports whether the due date has passed. Activities without a due
// date never become past due.
func (a Activity) IsPastDue(reference time.Time) bool {
	return a.DueDate != nil && reference.After(*a.DueDate)
}

// AssignedTo reports whether the student is targeted by the activity through
// the class assignment list for their class.
func (a Activity) AssignedTo(classID, studentID uint) bool {
	for _, ca := range a.ClassAssignments {
		if ca.ClassID != classID {
			continue
		}
		for _, id := range ca.StudentIDs {
			if id == studentID {
				return true
			}
		}
	}
	return false
}

// VisibleTo combines the posting gate with the class assignment list.
func (a Activity) VisibleTo(classID, studentID uint, reference time.Time) bool {
	return a.IsPosted(reference) && a.AssignedTo(classID, studentID)
}

// OpenToStudent is the submit-side gate: the activity must be posted and the
// student targeted by at least one class assignment. Submit payloads carry no
// class, so any assignment listing the student counts.
func (a Activity) OpenToStudent(studentID uint, reference time.Time) bool {
	if !a.IsPosted(reference) {
		return false
	}
	for _, ca := range a.ClassAssignments {
		for _, id := range ca.StudentIDs {
			if id == studentID {
				return true
			}
		}
	}
	return false
}

// QuestionPointsTotal sums the points of every question.
func (a Activity) QuestionPointsTotal() int {
	total := 0
	for _, q := range a.Questions {
		total += q.Points
	}
	return total
}
