package authz

import (
	"fmt"

	"github.com/eduside/lms-api/internal/models"
)

type actionKind string

const (
	actViewMaterial                actionKind = "view_material"
	actView                        actionKind = "view"
	actEdit                        actionKind = "edit"
	actGrade                       actionKind = "grade"
	actTeach                       actionKind = "teach"
	actDownload                    actionKind = "download"
	actDuplicate                   actionKind = "duplicate"
	actDeleteAnswer                actionKind = "delete_answer"
	actEditRole                    actionKind = "edit_role"
	actCreateCoursesOrExams        actionKind = "create_courses_or_exams"
	actUsuallyUnacceptableDeletion actionKind = "usually_unacceptable_deletion"
	actUploadFile                  actionKind = "upload_file"
)

// Action describes an operation a user can take on some resource. The
// zero value is not a valid action; use the exported values and
// constructors.
type Action struct {
	kind actionKind
	// set only for the EditRole action
	editedRole models.UserRole
}

var (
	ActionViewMaterial = Action{kind: actViewMaterial}
	ActionView         = Action{kind: actView}
	ActionEdit         = Action{kind: actEdit}
	ActionGrade        = Action{kind: actGrade}
	ActionTeach        = Action{kind: actTeach}
	ActionDownload     = Action{kind: actDownload}
	ActionDuplicate    = Action{kind: actDuplicate}
	ActionDeleteAnswer = Action{kind: actDeleteAnswer}
	// Deletion that we usually don't want to allow.
	ActionUsuallyUnacceptableDeletion = Action{kind: actUsuallyUnacceptableDeletion}
	ActionCreateCoursesOrExams        = Action{kind: actCreateCoursesOrExams}
	ActionUploadFile                  = Action{kind: actUploadFile}
)

// ActionEditRole targets granting or revoking the given role.
func ActionEditRole(target models.UserRole) Action {
	return Action{kind: actEditRole, editedRole: target}
}

// String implements fmt.Stringer for logging.
func (a Action) String() string {
	if a.kind == actEditRole {
		return fmt.Sprintf("%s(%s)", a.kind, a.editedRole)
	}
	return string(a.kind)
}
