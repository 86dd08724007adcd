package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

const completionColumns = `id, course_id, course_module_id, course_instance_id, user_id,
        grade, passed, completion_date, created_at, deleted_at`

// CompletionRepository manages course module completions, read by the
// study registry export and the certificate generator.
type CompletionRepository struct {
	db *sqlx.DB
}

// NewCompletionRepository constructs a CompletionRepository.
func NewCompletionRepository(db *sqlx.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// ListByCourse returns every completion recorded for a course.
func (r *CompletionRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.CourseModuleCompletion, error) {
	query := `SELECT ` + completionColumns + `
        FROM course_module_completions
        WHERE course_id = $1 AND deleted_at IS NULL
        ORDER BY completion_date`
	var completions []models.CourseModuleCompletion
	if err := r.db.SelectContext(ctx, &completions, query, courseID); err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return completions, nil
}

// FindForUser fetches a user's passed completion of a course module.
func (r *CompletionRepository) FindForUser(ctx context.Context, courseModuleID, userID uuid.UUID) (*models.CourseModuleCompletion, error) {
	query := `SELECT ` + completionColumns + `
        FROM course_module_completions
        WHERE course_module_id = $1 AND user_id = $2 AND passed = TRUE AND deleted_at IS NULL
        ORDER BY completion_date DESC
        LIMIT 1`
	var completion models.CourseModuleCompletion
	if err := r.db.GetContext(ctx, &completion, query, courseModuleID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find completion: %w", err)
	}
	return &completion, nil
}

// Insert records a completion.
func (r *CompletionRepository) Insert(ctx context.Context, completion models.CourseModuleCompletion) (*models.CourseModuleCompletion, error) {
	query := `INSERT INTO course_module_completions
            (id, course_id, course_module_id, course_instance_id, user_id, grade, passed, completion_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + completionColumns
	var inserted models.CourseModuleCompletion
	err := r.db.GetContext(ctx, &inserted, query,
		uuid.New(), completion.CourseID, completion.CourseModuleID, completion.CourseInstanceID,
		completion.UserID, completion.Grade, completion.Passed, completion.CompletionDate)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	return &inserted, nil
}
