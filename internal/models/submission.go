package models

import "time"

// Submission represents an answer turned in by a student for an assignment.
// The composite unique index guarantees at most one submission per student
// per assignment; concurrent inserts for the same pair lose at the database.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"assignment_id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"student_id"`
	Answer       string     `gorm:"type:text;not null" json:"answer"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	Reviewed     bool       `gorm:"not null;default:false" json:"reviewed"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student      User       `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
