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

const chapterColumns = `id, name, course_id, course_module_id, chapter_number, front_page_id,
        opens_at, chapter_image_path, copied_from, created_at, updated_at, deleted_at`

// ChapterRepository manages persistence for chapters.
type ChapterRepository struct {
	db *sqlx.DB
}

// NewChapterRepository constructs a ChapterRepository.
func NewChapterRepository(db *sqlx.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// FindByID fetches a chapter by id.
func (r *ChapterRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE id = $1 AND deleted_at IS NULL`
	var chapter models.Chapter
	if err := r.db.GetContext(ctx, &chapter, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find chapter: %w", err)
	}
	return &chapter, nil
}

// ListByCourse returns a course's chapters in numbering order.
func (r *ChapterRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Chapter, error) {
	query := `SELECT ` + chapterColumns + `
        FROM chapters
        WHERE course_id = $1 AND deleted_at IS NULL
        ORDER BY chapter_number`
	var chapters []models.Chapter
	if err := r.db.SelectContext(ctx, &chapters, query, courseID); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}
