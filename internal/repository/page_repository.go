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

const pageColumns = `id, course_id, exam_id, chapter_id, url_path, title, content,
        order_number, content_search_language, copied_from, created_at, updated_at, deleted_at`

// PageRepository manages persistence for material pages.
type PageRepository struct {
	db *sqlx.DB
}

// NewPageRepository constructs a PageRepository.
func NewPageRepository(db *sqlx.DB) *PageRepository {
	return &PageRepository{db: db}
}

// FindByID fetches a page by id.
func (r *PageRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = $1 AND deleted_at IS NULL`
	var page models.Page
	if err := r.db.GetContext(ctx, &page, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find page: %w", err)
	}
	return &page, nil
}

// FindByCourseAndPath fetches a course page by its url path, the lookup
// the material renderer uses.
func (r *PageRepository) FindByCourseAndPath(ctx context.Context, courseID uuid.UUID, urlPath string) (*models.Page, error) {
	query := `SELECT ` + pageColumns + `
        FROM pages
        WHERE course_id = $1 AND url_path = $2 AND deleted_at IS NULL`
	var page models.Page
	if err := r.db.GetContext(ctx, &page, query, courseID, urlPath); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find page by path: %w", err)
	}
	return &page, nil
}

// ListByCourse returns a course's pages in reading order.
func (r *PageRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Page, error) {
	query := `SELECT ` + pageColumns + `
        FROM pages
        WHERE course_id = $1 AND deleted_at IS NULL
        ORDER BY order_number`
	var pages []models.Page
	if err := r.db.SelectContext(ctx, &pages, query, courseID); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// UpdateContent replaces a page's content document.
func (r *PageRepository) UpdateContent(ctx context.Context, id uuid.UUID, update models.UpdatePageContent) (*models.Page, error) {
	query := `UPDATE pages
        SET content = $1, updated_at = NOW()
        WHERE id = $2 AND deleted_at IS NULL
        RETURNING ` + pageColumns
	var page models.Page
	if err := r.db.GetContext(ctx, &page, query, []byte(update.Content), id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("update page content: %w", err)
	}
	return &page, nil
}
