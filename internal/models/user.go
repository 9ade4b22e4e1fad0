package models

import "time"

// Account roles. A user holds exactly one role, fixed at registration.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents a registered account, either a teacher or a student.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:32;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsTeacher reports whether the account may manage assignments.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsStudent reports whether the account may browse and submit.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}
