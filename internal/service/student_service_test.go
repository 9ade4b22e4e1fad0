package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/classdesk/classwork-api/internal/dto"
	"github.com/classdesk/classwork-api/internal/models"
)

type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	nextID      uint
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{submissions: make(map[uint]models.Submission), nextID: 1}
}

func (m *memorySubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	for _, existing := range m.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.StudentID == submission.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	submission.ID = m.nextID
	m.submissions[m.nextID] = *submission
	m.nextID++
	return nil
}

func (m *memorySubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) GetUnderAssignment(ctx context.Context, id, assignmentID uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok || submission.AssignmentID != assignmentID {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	matched := make([]models.Submission, 0, len(m.submissions))
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID {
			matched = append(matched, submission)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})
	return matched, nil
}

func (m *memorySubmissionRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	matched := make([]models.Submission, 0, len(m.submissions))
	for _, submission := range m.submissions {
		if submission.StudentID == studentID {
			matched = append(matched, submission)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})
	return matched, nil
}

func (m *memorySubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	if _, ok := m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.submissions[submission.ID] = *submission
	return nil
}

func newStudentServiceForTest(assignments *memoryAssignmentRepo, submissions *memorySubmissionRepo, cache *redis.Client) StudentService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewStudentService(assignments, submissions, validate, cache, time.Minute, testLogger())
}

func seedPublishedAssignment(t *testing.T, assignments *memoryAssignmentRepo, teacherID uint, title string) models.Assignment {
	t.Helper()
	assignment := models.Assignment{
		Title:       title,
		Description: "desc",
		DueDate:     time.Now().Add(24 * time.Hour),
		Status:      models.AssignmentStatusPublished,
		TeacherID:   teacherID,
	}
	require.NoError(t, assignments.Create(context.Background(), &assignment))
	return assignment
}

func TestStudentServiceSubmit(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	submissions := newMemorySubmissionRepo()
	svc := newStudentServiceForTest(assignments, submissions, nil)

	assignment := seedPublishedAssignment(t, assignments, 1, "HW1")

	created, err := svc.Submit(context.Background(), 7, assignment.ID, dto.SubmitRequest{Answer: "  my answer  "})
	require.NoError(t, err)
	require.Equal(t, assignment.ID, created.AssignmentID)
	require.Equal(t, uint(7), created.StudentID)
	require.Equal(t, "my answer", created.Answer)
	require.False(t, created.Reviewed)
}

func TestStudentServiceSubmitRejectsDuplicate(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	svc := newStudentServiceForTest(assignments, newMemorySubmissionRepo(), nil)

	assignment := seedPublishedAssignment(t, assignments, 1, "HW1")

	_, err := svc.Submit(context.Background(), 7, assignment.ID, dto.SubmitRequest{Answer: "first"})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), 7, assignment.ID, dto.SubmitRequest{Answer: "second"})
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	// another student is unaffected
	_, err = svc.Submit(context.Background(), 8, assignment.ID, dto.SubmitRequest{Answer: "theirs"})
	require.NoError(t, err)
}

func TestStudentServiceSubmitRequiresPublishedAssignment(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	svc := newStudentServiceForTest(assignments, newMemorySubmissionRepo(), nil)

	draft := models.Assignment{Title: "Draft", Description: "d", DueDate: time.Now(), Status: models.AssignmentStatusDraft, TeacherID: 1}
	require.NoError(t, assignments.Create(context.Background(), &draft))

	_, err := svc.Submit(context.Background(), 7, draft.ID, dto.SubmitRequest{Answer: "x"})
	require.ErrorIs(t, err, ErrAssignmentNotFound)

	_, err = svc.Submit(context.Background(), 7, 999, dto.SubmitRequest{Answer: "x"})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestStudentServiceSubmitValidatesAnswer(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	svc := newStudentServiceForTest(assignments, newMemorySubmissionRepo(), nil)

	assignment := seedPublishedAssignment(t, assignments, 1, "HW1")

	_, err := svc.Submit(context.Background(), 7, assignment.ID, dto.SubmitRequest{})
	require.Error(t, err)
}

func TestStudentServiceListPublishedUsesCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	assignments := newMemoryAssignmentRepo()
	svc := newStudentServiceForTest(assignments, newMemorySubmissionRepo(), redisClient)

	seedPublishedAssignment(t, assignments, 1, "HW1")

	listed, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.True(t, server.Exists(publishedAssignmentsCacheKey), "expected listing cached")

	// A second assignment stays invisible until the cached entry expires.
	seedPublishedAssignment(t, assignments, 1, "HW2")

	listed, err = svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	server.FastForward(2 * time.Minute)

	listed, err = svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestStudentServiceListPublishedWithoutCache(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	svc := newStudentServiceForTest(assignments, newMemorySubmissionRepo(), nil)

	later := models.Assignment{Title: "Later", Description: "desc", DueDate: time.Now().Add(48 * time.Hour), Status: models.AssignmentStatusPublished, TeacherID: 1}
	require.NoError(t, assignments.Create(context.Background(), &later))
	sooner := models.Assignment{Title: "Sooner", Description: "desc", DueDate: time.Now().Add(12 * time.Hour), Status: models.AssignmentStatusPublished, TeacherID: 1}
	require.NoError(t, assignments.Create(context.Background(), &sooner))

	listed, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "Sooner", listed[0].Title)
}

func TestStudentServiceListMine(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	submissions := newMemorySubmissionRepo()
	svc := newStudentServiceForTest(assignments, submissions, nil)

	assignment := seedPublishedAssignment(t, assignments, 1, "HW1")

	_, err := svc.Submit(context.Background(), 7, assignment.ID, dto.SubmitRequest{Answer: "mine"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), 8, assignment.ID, dto.SubmitRequest{Answer: "theirs"})
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "mine", mine[0].Answer)

	none, err := svc.ListMine(context.Background(), 9)
	require.NoError(t, err)
	require.Empty(t, none)
}
