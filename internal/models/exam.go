package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Exam is a timed assessment owned by an organization. Exams may later
// be linked to courses; a freshly copied exam has no linked courses.
type Exam struct {
	ID                     uuid.UUID       `db:"id" json:"id"`
	Name                   string          `db:"name" json:"name"`
	OrganizationID         uuid.UUID       `db:"organization_id" json:"organization_id"`
	Instructions           json.RawMessage `db:"instructions" json:"instructions"`
	Language               string          `db:"language" json:"language"`
	StartsAt               *time.Time      `db:"starts_at" json:"starts_at,omitempty"`
	EndsAt                 *time.Time      `db:"ends_at" json:"ends_at,omitempty"`
	TimeMinutes            int             `db:"time_minutes" json:"time_minutes"`
	MinimumPointsThreshold int             `db:"minimum_points_threshold" json:"minimum_points_threshold"`
	CreatedAt              time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt              *time.Time      `db:"deleted_at" json:"deleted_at,omitempty"`
}

// ExamWithPage is the API shape for a single exam: the exam row, the id
// of its material page and the courses the exam is attached to.
type ExamWithPage struct {
	Exam
	PageID  uuid.UUID `json:"page_id"`
	Courses []Course  `json:"courses"`
}

// NewExam captures fields for creating (or copying into) an exam.
type NewExam struct {
	Name        string     `json:"name" validate:"required"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	TimeMinutes int        `json:"time_minutes" validate:"gte=0"`
}
