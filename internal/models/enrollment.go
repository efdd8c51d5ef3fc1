package models

import "time"

// Enrollment records a student's membership in one roster: the combination of
// section, track, strand, grade level, school year and term.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;index;uniqueIndex:idx_enrollment_roster" json:"student_id"`
	Section    string    `gorm:"size:64;not null;uniqueIndex:idx_enrollment_roster" json:"section"`
	Track      string    `gorm:"size:64;not null;uniqueIndex:idx_enrollment_roster" json:"track"`
	Strand     string    `gorm:"size:64;not null;uniqueIndex:idx_enrollment_roster" json:"strand"`
	GradeLevel string    `gorm:"size:16;not null;uniqueIndex:idx_enrollment_roster" json:"grade_level"`
	SchoolYear string    `gorm:"size:16;not null;uniqueIndex:idx_enrollment_roster" json:"school_year"`
	Term       string    `gorm:"size:16;not null;uniqueIndex:idx_enrollment_roster" json:"term"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Student    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// RosterFilter identifies one roster. All fields are required when scoping a
// grade import; listing queries may leave fields empty to widen the match.
type RosterFilter struct {
	Section    string
	Track      string
	Strand     string
	GradeLevel string
	SchoolYear string
	Term       string
}

// Matches reports whether the enrollment belongs to the given roster.
func (e Enrollment) Matches(filter RosterFilter) bool {
	return e.Section == filter.Section &&
		e.Track == filter.Track &&
		e.Strand == filter.Strand &&
		e.GradeLevel == filter.GradeLevel &&
		e.SchoolYear == filter.SchoolYear &&
		e.Term == filter.Term
}
