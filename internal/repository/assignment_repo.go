package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/classdesk/classwork-api/internal/models"
)

// AssignmentListFilter narrows a teacher's assignment listing.
type AssignmentListFilter struct {
	TeacherID uint
	Status    string
	Page      int
	Limit     int
}

// AssignmentRepository defines persistence operations for assignments.
// Every teacher-facing query is scoped by teacher id so ownership checks
// never leak whether a foreign record exists.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	ListByTeacher(ctx context.Context, filter AssignmentListFilter) ([]models.Assignment, int64, error)
	GetByTeacher(ctx context.Context, id, teacherID uint) (models.Assignment, error)
	UpdateDraft(ctx context.Context, id, teacherID uint, updates map[string]interface{}) error
	Transition(ctx context.Context, id, teacherID uint, from, to string, at time.Time) error
	DeleteDraft(ctx context.Context, id, teacherID uint) error
	ListPublished(ctx context.Context) ([]models.Assignment, error)
	GetPublished(ctx context.Context, id uint) (models.Assignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) ListByTeacher(ctx context.Context, filter AssignmentListFilter) ([]models.Assignment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("teacher_id = ?", filter.TeacherID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.Limit
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var assignments []models.Assignment
	if err := query.Preload("Teacher").Order("created_at DESC").Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepository) GetByTeacher(ctx context.Context, id, teacherID uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).Preload("Teacher").
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

// UpdateDraft edits columns on an assignment only while it is still a draft.
// The draft precondition lives in the WHERE clause, so an edit racing a
// publish matches zero rows instead of writing a stale status back.
func (r *assignmentRepository) UpdateDraft(ctx context.Context, id, teacherID uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("id = ? AND teacher_id = ? AND status = ?", id, teacherID, models.AssignmentStatusDraft).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Transition moves an assignment from one lifecycle state to the next with a
// status precondition in the WHERE clause. Zero affected rows means the record
// is absent, foreign-owned, or no longer in the expected state; callers treat
// all three as not found. Concurrent double-publish cannot both succeed.
func (r *assignmentRepository) Transition(ctx context.Context, id, teacherID uint, from, to string, at time.Time) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}

	switch to {
	case models.AssignmentStatusPublished:
		updates["published_at"] = at
	case models.AssignmentStatusCompleted:
		updates["completed_at"] = at
	}

	result := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("id = ? AND teacher_id = ? AND status = ?", id, teacherID, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// DeleteDraft removes an assignment only while it is still a draft. Drafts
// cannot have submissions, so the delete never orphans anything.
func (r *assignmentRepository) DeleteDraft(ctx context.Context, id, teacherID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND teacher_id = ? AND status = ?", id, teacherID, models.AssignmentStatusDraft).
		Delete(&models.Assignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *assignmentRepository) ListPublished(ctx context.Context) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).Preload("Teacher").
		Where("status = ?", models.AssignmentStatusPublished).
		Order("due_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) GetPublished(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.AssignmentStatusPublished).
		First(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}
