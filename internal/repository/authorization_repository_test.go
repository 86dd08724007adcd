package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/eduside/lms-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuthorizationRepositoryGetRoles(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAuthorizationRepository(db)

	userID := uuid.New()
	courseID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "user_id", "role", "organization_id", "course_id", "course_instance_id", "exam_id", "created_at"}).
		AddRow(uuid.New(), userID, "teacher", nil, courseID, nil, nil, time.Now()).
		AddRow(uuid.New(), userID, "admin", nil, nil, nil, nil, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM roles").
		WithArgs(userID).
		WillReturnRows(rows)

	roles, err := repo.GetRoles(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.True(t, roles[0].IsRoleForCourse(courseID))
	assert.True(t, roles[1].IsGlobal())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizationRepositoryChapterIsOpen(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAuthorizationRepository(db)

	chapterID := uuid.New()
	future := time.Now().Add(24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT opens_at FROM chapters WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs(chapterID).
		WillReturnRows(sqlmock.NewRows([]string{"opens_at"}).AddRow(future))

	open, err := repo.ChapterIsOpen(context.Background(), chapterID)
	require.NoError(t, err)
	assert.False(t, open)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT opens_at FROM chapters WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs(chapterID).
		WillReturnRows(sqlmock.NewRows([]string{"opens_at"}).AddRow(nil))

	open, err = repo.ChapterIsOpen(context.Background(), chapterID)
	require.NoError(t, err)
	assert.True(t, open, "a chapter without opens_at is open")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizationRepositoryMissingRowsAreNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAuthorizationRepository(db)

	courseID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT organization_id FROM courses WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs(courseID).
		WillReturnRows(sqlmock.NewRows([]string{"organization_id"}))

	_, err := repo.CourseOrganizationID(context.Background(), courseID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizationRepositoryExerciseOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAuthorizationRepository(db)

	exerciseID := uuid.New()
	examID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_id, exam_id FROM exercises WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs(exerciseID).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "exam_id"}).AddRow(nil, examID))

	owner, err := repo.ExerciseCourseOrExamID(context.Background(), exerciseID)
	require.NoError(t, err)
	require.True(t, owner.IsExam())
	assert.Equal(t, examID, *owner.ExamID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizationRepositoryRegistrarSecretKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAuthorizationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM study_registry_registrars WHERE secret_key = $1 AND deleted_at IS NULL LIMIT 1")).
		WithArgs("known-key").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.RegistrarExistsBySecretKey(context.Background(), "known-key")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM study_registry_registrars WHERE secret_key = $1 AND deleted_at IS NULL LIMIT 1")).
		WithArgs("unknown-key").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.RegistrarExistsBySecretKey(context.Background(), "unknown-key")
	require.NoError(t, err, "a missing registrar is not an error")
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
