package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BlockTypeExercise is the content block name whose attributes embed an
// exercise id. The copy engine rewrites these references; changing the
// constant is a breaking change to stored documents.
const BlockTypeExercise = "course-material/exercise"

// Page is one page of course or exam material. Content is an ordered
// array of editor blocks stored as JSONB; exactly one of CourseID and
// ExamID is set.
type Page struct {
	ID                    uuid.UUID       `db:"id" json:"id"`
	CourseID              *uuid.UUID      `db:"course_id" json:"course_id,omitempty"`
	ExamID                *uuid.UUID      `db:"exam_id" json:"exam_id,omitempty"`
	ChapterID             *uuid.UUID      `db:"chapter_id" json:"chapter_id,omitempty"`
	URLPath               string          `db:"url_path" json:"url_path"`
	Title                 string          `db:"title" json:"title"`
	Content               json.RawMessage `db:"content" json:"content"`
	OrderNumber           int             `db:"order_number" json:"order_number"`
	ContentSearchLanguage *string         `db:"content_search_language" json:"content_search_language,omitempty"`
	CopiedFrom            *uuid.UUID      `db:"copied_from" json:"copied_from,omitempty"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt             *time.Time      `db:"deleted_at" json:"deleted_at,omitempty"`
}

// UpdatePageContent replaces a page's content document.
type UpdatePageContent struct {
	Content json.RawMessage `json:"content" validate:"required"`
}
