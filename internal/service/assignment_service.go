package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/classdesk/classwork-api/internal/dto"
	"github.com/classdesk/classwork-api/internal/models"
	"github.com/classdesk/classwork-api/internal/repository"
)

var (
	// ErrAssignmentNotFound covers three cases on purpose: the record does not
	// exist, it belongs to another teacher, or it is in the wrong state for the
	// requested operation. Collapsing them avoids leaking existence information.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrSubmissionNotFound indicates a submission could not be found under the assignment.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrValidation marks input problems detected outside struct tags.
	ErrValidation = errors.New("invalid input")
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// AssignmentService exposes the teacher-side assignment workflow.
type AssignmentService interface {
	Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	List(ctx context.Context, teacherID uint, payload dto.AssignmentListRequest) (dto.AssignmentListResponse, error)
	Get(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error)
	Update(ctx context.Context, teacherID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Publish(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error)
	Complete(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, teacherID, id uint) error
	ListSubmissions(ctx context.Context, teacherID, assignmentID uint) (dto.AssignmentSubmissionsResponse, error)
	ReviewSubmission(ctx context.Context, teacherID, assignmentID, submissionID uint) (dto.SubmissionResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	cache       *redis.Client
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService builds a new assignment service. The cache client may
// be nil; it is only used to drop the published listing on lifecycle changes.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, validate *validator.Validate, cache *redis.Client, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		validator:   validate,
		cache:       cache,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("%w: due date must be an RFC3339 timestamp or a YYYY-MM-DD date", ErrValidation)
	}

	assignment := models.Assignment{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		DueDate:     dueDate,
		Status:      models.AssignmentStatusDraft,
		TeacherID:   teacherID,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	// Reload so the owner identity is attached to the response.
	created, err := s.assignments.GetByTeacher(ctx, assignment.ID, teacherID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", created.ID).Uint("teacher_id", teacherID).Msg("assignment created")

	return dto.NewAssignmentResponse(created), nil
}

func (s *assignmentService) List(ctx context.Context, teacherID uint, payload dto.AssignmentListRequest) (dto.AssignmentListResponse, error) {
	page := payload.Page
	if page < 1 {
		page = 1
	}

	limit := payload.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	// Unknown status values are ignored rather than rejected.
	status := strings.ToLower(strings.TrimSpace(payload.Status))
	if !models.IsValidAssignmentStatus(status) {
		status = ""
	}

	assignments, total, err := s.assignments.ListByTeacher(ctx, repository.AssignmentListFilter{
		TeacherID: teacherID,
		Status:    status,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return dto.AssignmentListResponse{
		Assignments: dto.NewAssignmentResponseSlice(assignments),
		Pagination: dto.PaginationMeta{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *assignmentService) Get(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByTeacher(ctx, id, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}

		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, teacherID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	updates := map[string]interface{}{
		"updated_at": s.now().UTC(),
	}

	if payload.Title != nil {
		title := strings.TrimSpace(*payload.Title)
		if title == "" {
			return dto.AssignmentResponse{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		updates["title"] = title
	}

	if payload.Description != nil {
		description := strings.TrimSpace(*payload.Description)
		if description == "" {
			return dto.AssignmentResponse{}, fmt.Errorf("%w: description must not be empty", ErrValidation)
		}
		updates["description"] = description
	}

	if payload.DueDate != nil {
		dueDate, err := parseDueDate(*payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, fmt.Errorf("%w: due date must be an RFC3339 timestamp or a YYYY-MM-DD date", ErrValidation)
		}
		updates["due_date"] = dueDate
	}

	// Only the edited columns are written, with the draft check in the same
	// statement. Zero rows means absent, foreign, or no longer a draft.
	if err := s.assignments.UpdateDraft(ctx, id, teacherID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}

		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByTeacher(ctx, id, teacherID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Publish(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error) {
	return s.transition(ctx, teacherID, id, models.AssignmentStatusDraft, models.AssignmentStatusPublished)
}

func (s *assignmentService) Complete(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error) {
	return s.transition(ctx, teacherID, id, models.AssignmentStatusPublished, models.AssignmentStatusCompleted)
}

func (s *assignmentService) transition(ctx context.Context, teacherID, id uint, from, to string) (dto.AssignmentResponse, error) {
	if err := s.assignments.Transition(ctx, id, teacherID, from, to, s.now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}

		return dto.AssignmentResponse{}, err
	}

	s.invalidatePublishedCache(ctx)

	assignment, err := s.assignments.GetByTeacher(ctx, id, teacherID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", id).Str("status", to).Msg("assignment transitioned")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, teacherID, id uint) error {
	if err := s.assignments.DeleteDraft(ctx, id, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}

		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")

	return nil
}

func (s *assignmentService) ListSubmissions(ctx context.Context, teacherID, assignmentID uint) (dto.AssignmentSubmissionsResponse, error) {
	assignment, err := s.assignments.GetByTeacher(ctx, assignmentID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentSubmissionsResponse{}, ErrAssignmentNotFound
		}

		return dto.AssignmentSubmissionsResponse{}, err
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return dto.AssignmentSubmissionsResponse{}, err
	}

	return dto.AssignmentSubmissionsResponse{
		Assignment:  dto.NewAssignmentSummary(assignment),
		Submissions: dto.NewSubmissionResponseSlice(submissions),
	}, nil
}

// ReviewSubmission is idempotent in effect: re-reviewing re-stamps reviewed_at.
func (s *assignmentService) ReviewSubmission(ctx context.Context, teacherID, assignmentID, submissionID uint) (dto.SubmissionResponse, error) {
	if _, err := s.assignments.GetByTeacher(ctx, assignmentID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}

		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetUnderAssignment(ctx, submissionID, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}

		return dto.SubmissionResponse{}, err
	}

	reviewedAt := s.now().UTC()
	submission.Reviewed = true
	submission.ReviewedAt = &reviewedAt

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Uint("assignment_id", assignmentID).Msg("submission reviewed")

	return dto.NewSubmissionResponse(submission), nil
}

// parseDueDate accepts a full RFC3339 timestamp or a date-only value, which
// is read as midnight UTC.
func parseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}

	return time.Parse("2006-01-02", value)
}

func (s *assignmentService) invalidatePublishedCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, publishedAssignmentsCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate published assignments cache")
	}
}
