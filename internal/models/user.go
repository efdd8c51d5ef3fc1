package models

import (
	"strings"
	"time"
)

const (
	// RoleStudent marks accounts that can be targeted by activities and rosters.
	RoleStudent = "student"
	// RoleTeacher marks accounts that create and grade activities.
	RoleTeacher = "teacher"
)

// User represents a platform account. Grade-sheet name matching only ever
// considers users with RoleStudent.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:255;not null" json:"first_name"`
	LastName  string    `gorm:"size:255;not null" json:"last_name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null;index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the display name in "First Last" order.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
