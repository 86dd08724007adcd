package models

import (
	"time"

	"github.com/google/uuid"
)

// Course is the aggregate root of authored material. Courses translated
// from one another share a course language group.
type Course struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	Name                  string     `db:"name" json:"name"`
	Slug                  string     `db:"slug" json:"slug"`
	OrganizationID        uuid.UUID  `db:"organization_id" json:"organization_id"`
	LanguageCode          string     `db:"language_code" json:"language_code"`
	ContentSearchLanguage *string    `db:"content_search_language" json:"content_search_language,omitempty"`
	CourseLanguageGroupID uuid.UUID  `db:"course_language_group_id" json:"course_language_group_id"`
	Description           *string    `db:"description" json:"description,omitempty"`
	IsDraft               bool       `db:"is_draft" json:"is_draft"`
	IsTestMode            bool       `db:"is_test_mode" json:"is_test_mode"`
	CopiedFrom            *uuid.UUID `db:"copied_from" json:"copied_from,omitempty"`
	// Completing the base module may require completing a number of submodules first.
	BaseModuleCompletionCount *int       `db:"base_module_completion_requires_n_submodule_completions" json:"base_module_completion_requires_n_submodule_completions,omitempty"`
	CreatedAt                 time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt                 *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// NewCourse captures fields for creating a course, including a copy target.
type NewCourse struct {
	Name                 string    `json:"name" validate:"required"`
	Slug                 string    `json:"slug" validate:"required"`
	OrganizationID       uuid.UUID `json:"organization_id" validate:"required"`
	LanguageCode         string    `json:"language_code" validate:"required"`
	TeacherInChargeName  string    `json:"teacher_in_charge_name" validate:"required"`
	TeacherInChargeEmail string    `json:"teacher_in_charge_email" validate:"required,email"`
	Description          string    `json:"description"`
	IsDraft              bool      `json:"is_draft"`
	IsTestMode           bool      `json:"is_test_mode"`
}

// UpdateCourse modifies editable course fields.
type UpdateCourse struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	IsDraft     bool    `json:"is_draft"`
}

// CourseInstance is one run of a course that students enroll in.
type CourseInstance struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	CourseID             uuid.UUID  `db:"course_id" json:"course_id"`
	Name                 *string    `db:"name" json:"name,omitempty"`
	Description          *string    `db:"description" json:"description,omitempty"`
	SupportEmail         *string    `db:"support_email" json:"support_email,omitempty"`
	TeacherInChargeName  string     `db:"teacher_in_charge_name" json:"teacher_in_charge_name"`
	TeacherInChargeEmail string     `db:"teacher_in_charge_email" json:"teacher_in_charge_email"`
	OpensAt              *time.Time `db:"opens_at" json:"opens_at,omitempty"`
	ClosesAt             *time.Time `db:"closes_at" json:"closes_at,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt            *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// CourseModule groups chapters for completion tracking.
type CourseModule struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	CourseID    uuid.UUID  `db:"course_id" json:"course_id"`
	Name        *string    `db:"name" json:"name,omitempty"`
	OrderNumber int        `db:"order_number" json:"order_number"`
	CopiedFrom  *uuid.UUID `db:"copied_from" json:"copied_from,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}
