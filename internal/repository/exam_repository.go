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

const examColumns = `id, name, organization_id, instructions, language, starts_at, ends_at,
        time_minutes, minimum_points_threshold, created_at, updated_at, deleted_at`

// ExamRepository manages persistence for exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// FindByID fetches an exam together with its page and linked courses.
func (r *ExamRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ExamWithPage, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE id = $1 AND deleted_at IS NULL`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}

	var pageID uuid.UUID
	err := r.db.GetContext(ctx, &pageID,
		`SELECT id FROM pages WHERE exam_id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam has no page")
		}
		return nil, fmt.Errorf("find exam page: %w", err)
	}

	courses := []models.Course{}
	err = r.db.SelectContext(ctx, &courses, `
        SELECT c.id, c.name, c.slug, c.organization_id, c.language_code, c.content_search_language,
            c.course_language_group_id, c.description, c.is_draft, c.is_test_mode, c.copied_from,
            c.base_module_completion_requires_n_submodule_completions, c.created_at, c.updated_at, c.deleted_at
        FROM courses c
        JOIN course_exams ce ON ce.course_id = c.id
        WHERE ce.exam_id = $1 AND c.deleted_at IS NULL`, id)
	if err != nil {
		return nil, fmt.Errorf("list exam courses: %w", err)
	}

	return &models.ExamWithPage{Exam: exam, PageID: pageID, Courses: courses}, nil
}

// ListByOrganization returns an organization's exams.
func (r *ExamRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Exam, error) {
	query := `SELECT ` + examColumns + `
        FROM exams
        WHERE organization_id = $1 AND deleted_at IS NULL
        ORDER BY name`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, organizationID); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}
