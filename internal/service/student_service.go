package service

import (
	"context"
	"encoding/json"
	"errors"
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

// ErrAlreadySubmitted indicates the student has already answered this assignment.
var ErrAlreadySubmitted = errors.New("already submitted")

const publishedAssignmentsCacheKey = "assignments:published"

// StudentService exposes the student-side workflow.
type StudentService interface {
	ListPublished(ctx context.Context) ([]dto.AssignmentResponse, error)
	Submit(ctx context.Context, studentID, assignmentID uint, payload dto.SubmitRequest) (dto.SubmissionResponse, error)
	ListMine(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
}

type studentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentService constructs a StudentService instance. The cache client may
// be nil, in which case every listing hits the database.
func NewStudentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) StudentService {
	return &studentService{
		assignments: assignments,
		submissions: submissions,
		validator:   validate,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "student_service").Logger(),
		now:         time.Now,
	}
}

func (s *studentService) ListPublished(ctx context.Context) ([]dto.AssignmentResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, publishedAssignmentsCacheKey).Result(); err == nil {
			var responses []dto.AssignmentResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &responses); unmarshalErr == nil {
				s.logger.Debug().Msg("published assignments cache hit")
				return responses, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read published assignments cache")
		}
	}

	assignments, err := s.assignments.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	responses := dto.NewAssignmentResponseSlice(assignments)

	if s.cache != nil {
		if payload, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, publishedAssignmentsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store published assignments cache")
			}
		}
	}

	return responses, nil
}

// Submit creates the student's submission for a published assignment. The
// duplicate check is the composite unique index, not a prior read, so two
// concurrent submits for the same pair cannot both succeed.
func (s *studentService) Submit(ctx context.Context, studentID, assignmentID uint, payload dto.SubmitRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.assignments.GetPublished(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}

		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Answer:       strings.TrimSpace(payload.Answer),
		SubmittedAt:  s.now().UTC(),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrAlreadySubmitted
		}

		return dto.SubmissionResponse{}, err
	}

	// Reload with associations for the denormalized response.
	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", created.ID).Uint("assignment_id", assignmentID).Uint("student_id", studentID).Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

func (s *studentService) ListMine(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}
