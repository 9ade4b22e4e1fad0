package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classdesk/classwork-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Assignment{}, &models.Submission{}))
	return db
}

func createTestTeacher(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	teacher := models.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	return teacher
}

func TestAssignmentRepositoryListByTeacherScopesAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)

	alice := createTestTeacher(t, db, "alice")
	bob := createTestTeacher(t, db, "bob")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		assignment := models.Assignment{
			Title:       fmt.Sprintf("HW %02d", i+1),
			Description: "desc",
			DueDate:     base.Add(24 * time.Hour),
			Status:      models.AssignmentStatusDraft,
			TeacherID:   alice.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&assignment).Error)
	}
	foreign := models.Assignment{Title: "Other", Description: "desc", DueDate: base, Status: models.AssignmentStatusDraft, TeacherID: bob.ID}
	require.NoError(t, db.Create(&foreign).Error)

	assignments, total, err := repo.ListByTeacher(context.Background(), AssignmentListFilter{TeacherID: alice.ID, Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(25), total)
	require.Len(t, assignments, 10)
	require.Equal(t, "HW 15", assignments[0].Title, "expected newest-first ordering")
	require.Equal(t, "HW 06", assignments[9].Title)
	require.Equal(t, "alice", assignments[0].Teacher.Name, "expected owner preloaded")
}

func TestAssignmentRepositoryListByTeacherFiltersStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	teacher := createTestTeacher(t, db, "carol")

	draft := models.Assignment{Title: "Draft", Description: "d", DueDate: time.Now(), Status: models.AssignmentStatusDraft, TeacherID: teacher.ID}
	published := models.Assignment{Title: "Published", Description: "d", DueDate: time.Now(), Status: models.AssignmentStatusPublished, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&draft).Error)
	require.NoError(t, db.Create(&published).Error)

	assignments, total, err := repo.ListByTeacher(context.Background(), AssignmentListFilter{TeacherID: teacher.ID, Status: models.AssignmentStatusPublished, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, assignments, 1)
	require.Equal(t, "Published", assignments[0].Title)
}

func TestAssignmentRepositoryTransitionRequiresExpectedStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	teacher := createTestTeacher(t, db, "dave")

	assignment := models.Assignment{Title: "HW", Description: "d", DueDate: time.Now(), Status: models.AssignmentStatusDraft, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&assignment).Error)

	now := time.Now().UTC()
	require.NoError(t, repo.Transition(context.Background(), assignment.ID, teacher.ID, models.AssignmentStatusDraft, models.AssignmentStatusPublished, now))

	var stored models.Assignment
	require.NoError(t, db.First(&stored, assignment.ID).Error)
	require.Equal(t, models.AssignmentStatusPublished, stored.Status)
	require.NotNil(t, stored.PublishedAt)

	// A second publish must lose the precondition.
	err := repo.Transition(context.Background(), assignment.ID, teacher.ID, models.AssignmentStatusDraft, models.AssignmentStatusPublished, now)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Transition(context.Background(), assignment.ID, teacher.ID, models.AssignmentStatusPublished, models.AssignmentStatusCompleted, now))
	require.NoError(t, db.First(&stored, assignment.ID).Error)
	require.NotNil(t, stored.CompletedAt)
}

func TestAssignmentRepositoryTransitionIgnoresForeignOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	owner := createTestTeacher(t, db, "erin")
	intruder := createTestTeacher(t, db, "frank")

	assignment := models.Assignment{Title: "HW", Description: "d", DueDate: time.Now(), Status: models.AssignmentStatusDraft, TeacherID: owner.ID}
	require.NoError(t, db.Create(&assignment).Error)

	err := repo.Transition(context.Background(), assignment.ID, intruder.ID, models.AssignmentStatusDraft, models.AssignmentStatusPublished, time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var stored models.Assignment
	require.NoError(t, db.First(&stored, assignment.ID).Error)
	require.Equal(t, models.AssignmentStatusDraft, stored.Status)
}

func TestAssignmentRepositoryUpdateDraftRequiresDraftStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	teacher := createTestTeacher(t, db, "mona")
	intruder := createTestTeacher(t, db, "nate")

	assignment := models.Assignment{Title: "HW", Description: "d", DueDate: time.Now(), Status: models.AssignmentStatusDraft, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&assignment).Error)

	require.NoError(t, repo.UpdateDraft(context.Background(), assignment.ID, teacher.ID, map[string]interface{}{"title": "HW v2"}))

	var stored models.Assignment
	require.NoError(t, db.First(&stored, assignment.ID).Error)
	require.Equal(t, "HW v2", stored.Title)

	err := repo.UpdateDraft(context.Background(), assignment.ID, intruder.ID, map[string]interface{}{"title": "hijacked"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// An edit staged before the publish landed must lose, not write the
	// stale draft status back.
	require.NoError(t, repo.Transition(context.Background(), assignment.ID, teacher.ID, models.AssignmentStatusDraft, models.AssignmentStatusPublished, time.Now().UTC()))

	err = repo.UpdateDraft(context.Background(), assignment.ID, teacher.ID, map[string]interface{}{"title": "stale edit"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, db.First(&stored, assignment.ID).Error)
	require.Equal(t, models.AssignmentStatusPublished, stored.Status)
	require.Equal(t, "HW v2", stored.Title)
}

func TestAssignmentRepositoryDeleteDraftOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	teacher := createTestTeacher(t, db, "grace")

	draft := models.Assignment{Title: "Draft", Description: "d", DueDate: time.Now(), Status: models.AssignmentStatusDraft, TeacherID: teacher.ID}
	published := models.Assignment{Title: "Published", Description: "d", DueDate: time.Now(), Status: models.AssignmentStatusPublished, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&draft).Error)
	require.NoError(t, db.Create(&published).Error)

	require.NoError(t, repo.DeleteDraft(context.Background(), draft.ID, teacher.ID))
	require.ErrorIs(t, repo.DeleteDraft(context.Background(), published.ID, teacher.ID), gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Assignment{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAssignmentRepositoryListPublishedOrdersByDueDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	teacher := createTestTeacher(t, db, "henry")

	later := models.Assignment{Title: "Later", Description: "d", DueDate: time.Now().Add(48 * time.Hour), Status: models.AssignmentStatusPublished, TeacherID: teacher.ID}
	sooner := models.Assignment{Title: "Sooner", Description: "d", DueDate: time.Now().Add(24 * time.Hour), Status: models.AssignmentStatusPublished, TeacherID: teacher.ID}
	draft := models.Assignment{Title: "Hidden", Description: "d", DueDate: time.Now(), Status: models.AssignmentStatusDraft, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&later).Error)
	require.NoError(t, db.Create(&sooner).Error)
	require.NoError(t, db.Create(&draft).Error)

	assignments, err := repo.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	require.Equal(t, "Sooner", assignments[0].Title)
	require.Equal(t, "Later", assignments[1].Title)
}
