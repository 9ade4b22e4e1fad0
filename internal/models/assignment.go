package models

import "time"

// Assignment represents a piece of classwork owned by a single teacher.
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	Status      string     `gorm:"size:32;not null;default:draft;index:idx_assignments_teacher_status,priority:2" json:"status"`
	TeacherID   uint       `gorm:"not null;index:idx_assignments_teacher_status,priority:1" json:"teacher_id"`
	PublishedAt *time.Time `json:"published_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Teacher     User       `gorm:"foreignKey:TeacherID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
}

// Lifecycle states. Transitions only move forward: draft -> published -> completed.
const (
	AssignmentStatusDraft     = "draft"
	AssignmentStatusPublished = "published"
	AssignmentStatusCompleted = "completed"
)

// IsValidAssignmentStatus reports whether value names one of the three lifecycle states.
func IsValidAssignmentStatus(value string) bool {
	switch value {
	case AssignmentStatusDraft, AssignmentStatusPublished, AssignmentStatusCompleted:
		return true
	default:
		return false
	}
}

// IsDraft reports whether the assignment can still be edited or deleted.
func (a Assignment) IsDraft() bool {
	return a.Status == AssignmentStatusDraft
}

// IsPublished reports whether the assignment is open for submissions.
func (a Assignment) IsPublished() bool {
	return a.Status == AssignmentStatusPublished
}
