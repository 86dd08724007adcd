package models

import (
	"time"

	"github.com/google/uuid"
)

// StudyRegistryRegistrar authenticates an external study registry by
// possession of a secret key.
type StudyRegistryRegistrar struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	SecretKey string     `db:"secret_key" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// CourseModuleCompletion records that a user finished a course module.
type CourseModuleCompletion struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	CourseID         uuid.UUID  `db:"course_id" json:"course_id"`
	CourseModuleID   uuid.UUID  `db:"course_module_id" json:"course_module_id"`
	CourseInstanceID uuid.UUID  `db:"course_instance_id" json:"course_instance_id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	Grade            *int       `db:"grade" json:"grade,omitempty"`
	Passed           bool       `db:"passed" json:"passed"`
	CompletionDate   time.Time  `db:"completion_date" json:"completion_date"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}
