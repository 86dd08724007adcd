package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

// AuthorizationRepository serves the hierarchy lookups the authorization
// resolver needs. Every single-row lookup maps a missing or soft-deleted
// row to ErrNotFound so the resolver can distinguish "no such resource"
// from "not allowed".
type AuthorizationRepository struct {
	db *sqlx.DB
}

// NewAuthorizationRepository constructs an AuthorizationRepository.
func NewAuthorizationRepository(db *sqlx.DB) *AuthorizationRepository {
	return &AuthorizationRepository{db: db}
}

// GetRoles returns every role assignment the user holds.
func (r *AuthorizationRepository) GetRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	query := `SELECT id, user_id, role, organization_id, course_id, course_instance_id, exam_id, created_at
        FROM roles
        WHERE user_id = $1`
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	return roles, nil
}

// ChapterCourseID resolves a chapter to its course.
func (r *AuthorizationRepository) ChapterCourseID(ctx context.Context, chapterID uuid.UUID) (uuid.UUID, error) {
	var courseID uuid.UUID
	err := r.db.GetContext(ctx, &courseID,
		`SELECT course_id FROM chapters WHERE id = $1 AND deleted_at IS NULL`, chapterID)
	if err != nil {
		return uuid.Nil, notFoundOr(err, "chapter course")
	}
	return courseID, nil
}

// ChapterIsOpen reports whether the chapter's material has been released.
func (r *AuthorizationRepository) ChapterIsOpen(ctx context.Context, chapterID uuid.UUID) (bool, error) {
	var opensAt *time.Time
	err := r.db.GetContext(ctx, &opensAt,
		`SELECT opens_at FROM chapters WHERE id = $1 AND deleted_at IS NULL`, chapterID)
	if err != nil {
		return false, notFoundOr(err, "chapter opens_at")
	}
	return opensAt == nil || !opensAt.After(time.Now()), nil
}

// CourseOrganizationID resolves a course to its organization.
func (r *AuthorizationRepository) CourseOrganizationID(ctx context.Context, courseID uuid.UUID) (uuid.UUID, error) {
	var organizationID uuid.UUID
	err := r.db.GetContext(ctx, &organizationID,
		`SELECT organization_id FROM courses WHERE id = $1 AND deleted_at IS NULL`, courseID)
	if err != nil {
		return uuid.Nil, notFoundOr(err, "course organization")
	}
	return organizationID, nil
}

// CourseIsDraft reports whether the course is unpublished.
func (r *AuthorizationRepository) CourseIsDraft(ctx context.Context, courseID uuid.UUID) (bool, error) {
	var isDraft bool
	err := r.db.GetContext(ctx, &isDraft,
		`SELECT is_draft FROM courses WHERE id = $1 AND deleted_at IS NULL`, courseID)
	if err != nil {
		return false, notFoundOr(err, "course is_draft")
	}
	return isDraft, nil
}

// CourseInstanceIsOpen reports whether the instance is currently open
// for enrollment.
func (r *AuthorizationRepository) CourseInstanceIsOpen(ctx context.Context, courseInstanceID uuid.UUID) (bool, error) {
	var opensAt *time.Time
	err := r.db.GetContext(ctx, &opensAt,
		`SELECT opens_at FROM course_instances WHERE id = $1 AND deleted_at IS NULL`, courseInstanceID)
	if err != nil {
		return false, notFoundOr(err, "course instance opens_at")
	}
	return opensAt == nil || !opensAt.After(time.Now()), nil
}

// CourseInstanceCourseID resolves a course instance to its course.
func (r *AuthorizationRepository) CourseInstanceCourseID(ctx context.Context, courseInstanceID uuid.UUID) (uuid.UUID, error) {
	var courseID uuid.UUID
	err := r.db.GetContext(ctx, &courseID,
		`SELECT course_id FROM course_instances WHERE id = $1 AND deleted_at IS NULL`, courseInstanceID)
	if err != nil {
		return uuid.Nil, notFoundOr(err, "course instance course")
	}
	return courseID, nil
}

// ExamOrganizationID resolves an exam to its organization.
func (r *AuthorizationRepository) ExamOrganizationID(ctx context.Context, examID uuid.UUID) (uuid.UUID, error) {
	var organizationID uuid.UUID
	err := r.db.GetContext(ctx, &organizationID,
		`SELECT organization_id FROM exams WHERE id = $1 AND deleted_at IS NULL`, examID)
	if err != nil {
		return uuid.Nil, notFoundOr(err, "exam organization")
	}
	return organizationID, nil
}

// ExerciseCourseOrExamID resolves an exercise to its owning course or exam.
func (r *AuthorizationRepository) ExerciseCourseOrExamID(ctx context.Context, exerciseID uuid.UUID) (models.CourseOrExamID, error) {
	return r.ownerOf(ctx,
		`SELECT course_id, exam_id FROM exercises WHERE id = $1 AND deleted_at IS NULL`,
		exerciseID, "exercise owner")
}

// ExerciseSlideSubmissionCourseOrExamID resolves a slide submission to
// its owning course or exam.
func (r *AuthorizationRepository) ExerciseSlideSubmissionCourseOrExamID(ctx context.Context, submissionID uuid.UUID) (models.CourseOrExamID, error) {
	return r.ownerOf(ctx,
		`SELECT course_id, exam_id FROM exercise_slide_submissions WHERE id = $1 AND deleted_at IS NULL`,
		submissionID, "slide submission owner")
}

// ExerciseTaskCourseOrExamID resolves a task to its owning course or exam
// through its slide's exercise.
func (r *AuthorizationRepository) ExerciseTaskCourseOrExamID(ctx context.Context, taskID uuid.UUID) (models.CourseOrExamID, error) {
	return r.ownerOf(ctx,
		`SELECT e.course_id, e.exam_id
        FROM exercise_tasks t
        JOIN exercise_slides s ON s.id = t.exercise_slide_id
        JOIN exercises e ON e.id = s.exercise_id
        WHERE t.id = $1 AND t.deleted_at IS NULL`,
		taskID, "exercise task owner")
}

// ExerciseTaskSubmissionCourseOrExamID resolves a task submission to its
// owning course or exam.
func (r *AuthorizationRepository) ExerciseTaskSubmissionCourseOrExamID(ctx context.Context, submissionID uuid.UUID) (models.CourseOrExamID, error) {
	return r.ownerOf(ctx,
		`SELECT course_id, exam_id FROM exercise_task_submissions WHERE id = $1 AND deleted_at IS NULL`,
		submissionID, "task submission owner")
}

// ExerciseTaskGradingCourseOrExamID resolves a grading to its owning
// course or exam.
func (r *AuthorizationRepository) ExerciseTaskGradingCourseOrExamID(ctx context.Context, gradingID uuid.UUID) (models.CourseOrExamID, error) {
	return r.ownerOf(ctx,
		`SELECT course_id, exam_id FROM exercise_task_gradings WHERE id = $1 AND deleted_at IS NULL`,
		gradingID, "task grading owner")
}

// PageCourseOrExamID resolves a page to its owning course or exam.
func (r *AuthorizationRepository) PageCourseOrExamID(ctx context.Context, pageID uuid.UUID) (models.CourseOrExamID, error) {
	return r.ownerOf(ctx,
		`SELECT course_id, exam_id FROM pages WHERE id = $1 AND deleted_at IS NULL`,
		pageID, "page owner")
}

// RegistrarExistsBySecretKey checks whether a study registry registrar
// holds the given secret key.
func (r *AuthorizationRepository) RegistrarExistsBySecretKey(ctx context.Context, secretKey string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists,
		`SELECT 1 FROM study_registry_registrars WHERE secret_key = $1 AND deleted_at IS NULL LIMIT 1`, secretKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check registrar secret key: %w", err)
	}
	return true, nil
}

func (r *AuthorizationRepository) ownerOf(ctx context.Context, query string, id uuid.UUID, what string) (models.CourseOrExamID, error) {
	var owner models.CourseOrExamID
	if err := r.db.GetContext(ctx, &owner, query, id); err != nil {
		return models.CourseOrExamID{}, notFoundOr(err, what)
	}
	return owner, nil
}

func notFoundOr(err error, what string) error {
	if err == sql.ErrNoRows {
		return appErrors.ErrNotFound
	}
	return fmt.Errorf("get %s: %w", what, err)
}
