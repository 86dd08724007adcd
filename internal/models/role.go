package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole enumerates the roles a user can hold, ordered by privilege.
type UserRole string

const (
	RoleAdmin               UserRole = "admin"
	RoleTeacher             UserRole = "teacher"
	RoleAssistant           UserRole = "assistant"
	RoleReviewer            UserRole = "reviewer"
	RoleCourseOrExamCreator UserRole = "course_or_exam_creator"
	RoleMaterialViewer      UserRole = "material_viewer"
)

// AllUserRoles lists every assignable role.
var AllUserRoles = []UserRole{
	RoleAdmin,
	RoleTeacher,
	RoleAssistant,
	RoleReviewer,
	RoleCourseOrExamCreator,
	RoleMaterialViewer,
}

// Valid reports whether the role is a known one.
func (r UserRole) Valid() bool {
	for _, known := range AllUserRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Role is one role assignment of a user. The domain columns are mutually
// exclusive; a row with all of them NULL is a global role.
type Role struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	Role             UserRole   `db:"role" json:"role"`
	OrganizationID   *uuid.UUID `db:"organization_id" json:"organization_id,omitempty"`
	CourseID         *uuid.UUID `db:"course_id" json:"course_id,omitempty"`
	CourseInstanceID *uuid.UUID `db:"course_instance_id" json:"course_instance_id,omitempty"`
	ExamID           *uuid.UUID `db:"exam_id" json:"exam_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// IsGlobal reports whether the assignment applies everywhere.
func (r Role) IsGlobal() bool {
	return r.OrganizationID == nil && r.CourseID == nil && r.CourseInstanceID == nil && r.ExamID == nil
}

// IsRoleForOrganization reports whether the assignment is scoped to the given organization.
func (r Role) IsRoleForOrganization(organizationID uuid.UUID) bool {
	return r.OrganizationID != nil && *r.OrganizationID == organizationID
}

// IsRoleForCourse reports whether the assignment is scoped to the given course.
func (r Role) IsRoleForCourse(courseID uuid.UUID) bool {
	return r.CourseID != nil && *r.CourseID == courseID
}

// IsRoleForCourseInstance reports whether the assignment is scoped to the given course instance.
func (r Role) IsRoleForCourseInstance(courseInstanceID uuid.UUID) bool {
	return r.CourseInstanceID != nil && *r.CourseInstanceID == courseInstanceID
}

// IsRoleForExam reports whether the assignment is scoped to the given exam.
func (r Role) IsRoleForExam(examID uuid.UUID) bool {
	return r.ExamID != nil && *r.ExamID == examID
}

// RoleDomainKind names the scope a role assignment applies to.
type RoleDomainKind string

const (
	DomainGlobal         RoleDomainKind = "global"
	DomainOrganization   RoleDomainKind = "organization"
	DomainCourse         RoleDomainKind = "course"
	DomainCourseInstance RoleDomainKind = "course_instance"
	DomainExam           RoleDomainKind = "exam"
)

// RoleDomain pairs a scope kind with the id of the scoping entity.
// The id is unset for the global domain.
type RoleDomain struct {
	Kind RoleDomainKind `json:"kind" validate:"required,oneof=global organization course course_instance exam"`
	ID   *uuid.UUID     `json:"id,omitempty"`
}

// ModifyRoleRequest adds or removes a role assignment within a domain.
type ModifyRoleRequest struct {
	Email  string     `json:"email" validate:"required,email"`
	Role   UserRole   `json:"role" validate:"required"`
	Domain RoleDomain `json:"domain" validate:"required"`
}
