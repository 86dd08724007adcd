package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

func testCourseRows(id uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "organization_id", "language_code", "content_search_language",
		"course_language_group_id", "description", "is_draft", "is_test_mode", "copied_from",
		"base_module_completion_requires_n_submodule_completions", "created_at", "updated_at", "deleted_at",
	}).AddRow(id, "Intro to Go", "intro-to-go", uuid.New(), "en-US", nil,
		uuid.New(), nil, false, false, nil, nil, now, now, nil)
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	courseID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM courses WHERE id").
		WithArgs(courseID).
		WillReturnRows(testCourseRows(courseID))

	course, err := repo.FindByID(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, courseID, course.ID)
	assert.Equal(t, "intro-to-go", course.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM courses WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestCourseRepositoryListByOrganization(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	organizationID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM courses(.+)ORDER BY name(.+)LIMIT 20 OFFSET 0").
		WithArgs(organizationID).
		WillReturnRows(testCourseRows(uuid.New()))
	mock.ExpectQuery("SELECT COUNT(.+) FROM courses").
		WithArgs(organizationID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.ListByOrganization(context.Background(), organizationID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	courseID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO course_language_groups").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO courses").
		WillReturnRows(testCourseRows(courseID))
	mock.ExpectExec("INSERT INTO course_instances").
		WithArgs(sqlmock.AnyArg(), courseID, "Teacher", "teacher@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	course, err := repo.Create(context.Background(), models.NewCourse{
		Name: "Intro to Go", Slug: "intro-to-go", OrganizationID: uuid.New(), LanguageCode: "en-US",
		TeacherInChargeName: "Teacher", TeacherInChargeEmail: "teacher@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, courseID, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySoftDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET deleted_at").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
