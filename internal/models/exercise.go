package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Exercise belongs to either a course or an exam and is rendered into a
// page through an exercise reference block.
type Exercise struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	CourseID     *uuid.UUID `db:"course_id" json:"course_id,omitempty"`
	ExamID       *uuid.UUID `db:"exam_id" json:"exam_id,omitempty"`
	PageID       uuid.UUID  `db:"page_id" json:"page_id"`
	ChapterID    *uuid.UUID `db:"chapter_id" json:"chapter_id,omitempty"`
	Deadline     *time.Time `db:"deadline" json:"deadline,omitempty"`
	ScoreMaximum int        `db:"score_maximum" json:"score_maximum"`
	OrderNumber  int        `db:"order_number" json:"order_number"`
	CopiedFrom   *uuid.UUID `db:"copied_from" json:"copied_from,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// ExerciseSlide is one selectable variant of an exercise.
type ExerciseSlide struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ExerciseID  uuid.UUID  `db:"exercise_id" json:"exercise_id"`
	OrderNumber int        `db:"order_number" json:"order_number"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// ExerciseTask is the gradeable unit under a slide. The three spec
// documents are opaque to the backend and copied verbatim.
type ExerciseTask struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	ExerciseSlideID   uuid.UUID       `db:"exercise_slide_id" json:"exercise_slide_id"`
	ExerciseType      string          `db:"exercise_type" json:"exercise_type"`
	Assignment        json.RawMessage `db:"assignment" json:"assignment"`
	PrivateSpec       json.RawMessage `db:"private_spec" json:"private_spec,omitempty"`
	PublicSpec        json.RawMessage `db:"public_spec" json:"public_spec,omitempty"`
	ModelSolutionSpec json.RawMessage `db:"model_solution_spec" json:"model_solution_spec,omitempty"`
	OrderNumber       int             `db:"order_number" json:"order_number"`
	CopiedFrom        *uuid.UUID      `db:"copied_from" json:"copied_from,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	DeletedAt         *time.Time      `db:"deleted_at" json:"deleted_at,omitempty"`
}
