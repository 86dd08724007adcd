package authz

import "github.com/eduside/lms-api/internal/models"

// hasPermission is the static permission table mapping a held role to
// the actions it grants. It is total: every role/action pair has a
// defined outcome.
func hasPermission(role models.UserRole, action Action) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		switch action.kind {
		case actView, actTeach, actEdit, actGrade, actDuplicate, actDeleteAnswer,
			actCreateCoursesOrExams, actViewMaterial, actUploadFile:
			return true
		case actEditRole:
			return action.editedRole == models.RoleTeacher ||
				action.editedRole == models.RoleAssistant ||
				action.editedRole == models.RoleReviewer
		}
	case models.RoleAssistant:
		switch action.kind {
		case actView, actEdit, actGrade, actDeleteAnswer, actTeach, actViewMaterial:
			return true
		case actEditRole:
			return action.editedRole == models.RoleAssistant ||
				action.editedRole == models.RoleReviewer
		}
	case models.RoleReviewer:
		switch action.kind {
		case actView, actGrade, actViewMaterial:
			return true
		}
	case models.RoleCourseOrExamCreator:
		return action.kind == actCreateCoursesOrExams
	case models.RoleMaterialViewer:
		return action.kind == actViewMaterial
	}
	return false
}
