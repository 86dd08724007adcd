package models

import (
	"time"

	"github.com/google/uuid"
)

// Chapter divides a course into time-gated sections. A chapter with a
// future opens_at is visible only to users with teaching rights.
type Chapter struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	CourseID         uuid.UUID  `db:"course_id" json:"course_id"`
	CourseModuleID   uuid.UUID  `db:"course_module_id" json:"course_module_id"`
	ChapterNumber    int        `db:"chapter_number" json:"chapter_number"`
	FrontPageID      *uuid.UUID `db:"front_page_id" json:"front_page_id,omitempty"`
	OpensAt          *time.Time `db:"opens_at" json:"opens_at,omitempty"`
	ChapterImagePath *string    `db:"chapter_image_path" json:"chapter_image_path,omitempty"`
	CopiedFrom       *uuid.UUID `db:"copied_from" json:"copied_from,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// IsOpen reports whether the chapter's material has been released.
func (c Chapter) IsOpen(now time.Time) bool {
	return c.OpensAt == nil || !c.OpensAt.After(now)
}
