package authz

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

// Directory resolves resources to their ancestors in the hierarchy
// (organization → course → instance/exam → chapter) and looks up role
// assignments. Lookups for missing rows must return ErrNotFound.
type Directory interface {
	GetRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error)

	ChapterCourseID(ctx context.Context, chapterID uuid.UUID) (uuid.UUID, error)
	ChapterIsOpen(ctx context.Context, chapterID uuid.UUID) (bool, error)

	CourseOrganizationID(ctx context.Context, courseID uuid.UUID) (uuid.UUID, error)
	CourseIsDraft(ctx context.Context, courseID uuid.UUID) (bool, error)

	CourseInstanceIsOpen(ctx context.Context, courseInstanceID uuid.UUID) (bool, error)
	CourseInstanceCourseID(ctx context.Context, courseInstanceID uuid.UUID) (uuid.UUID, error)

	ExamOrganizationID(ctx context.Context, examID uuid.UUID) (uuid.UUID, error)

	ExerciseCourseOrExamID(ctx context.Context, exerciseID uuid.UUID) (models.CourseOrExamID, error)
	ExerciseSlideSubmissionCourseOrExamID(ctx context.Context, submissionID uuid.UUID) (models.CourseOrExamID, error)
	ExerciseTaskCourseOrExamID(ctx context.Context, taskID uuid.UUID) (models.CourseOrExamID, error)
	ExerciseTaskSubmissionCourseOrExamID(ctx context.Context, submissionID uuid.UUID) (models.CourseOrExamID, error)
	ExerciseTaskGradingCourseOrExamID(ctx context.Context, gradingID uuid.UUID) (models.CourseOrExamID, error)
	PageCourseOrExamID(ctx context.Context, pageID uuid.UUID) (models.CourseOrExamID, error)

	RegistrarExistsBySecretKey(ctx context.Context, secretKey string) (bool, error)
}

// Resolver decides allow/deny for (action, resource) pairs by walking
// the resource hierarchy and the caller's role assignments. It is
// read-only and holds no locks; every check is a bounded number of
// sequential lookups.
type Resolver struct {
	dir    Directory
	logger *zap.Logger
}

// NewResolver creates an authorization resolver.
func NewResolver(dir Directory, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{dir: dir, logger: logger}
}

// Authorize fetches the user's roles and evaluates the requested action
// on the resource. A nil userID means an anonymous caller with no roles.
// On success the returned token is the only way to emit a response.
func (r *Resolver) Authorize(ctx context.Context, action Action, userID *uuid.UUID, resource Resource) (Token, error) {
	var roles []models.Role
	if userID != nil {
		fetched, err := r.dir.GetRoles(ctx, *userID)
		if err != nil {
			return Token{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch roles")
		}
		roles = fetched
	}
	return r.AuthorizeWithRoles(ctx, action, resource, roles)
}

// AuthorizeWithRoles is Authorize with a pre-fetched role list, used to
// avoid redundant role queries when one request performs several checks.
func (r *Resolver) AuthorizeWithRoles(ctx context.Context, action Action, resource Resource, roles []models.Role) (Token, error) {
	// a global role that grants the action allows everything
	for _, role := range roles {
		if role.IsGlobal() && hasPermission(role.Role, action) {
			return grantedToken(), nil
		}
	}

	// for this resource the domain of the role does not matter
	if resource.kind == resAnyCourse {
		for _, role := range roles {
			if hasPermission(role.Role, action) {
				return grantedToken(), nil
			}
		}
	}

	switch resource.kind {
	case resChapter:
		// viewing an unopened chapter requires teaching rights
		effective := action
		if action == ActionView {
			open, err := r.dir.ChapterIsOpen(ctx, resource.id)
			if err != nil {
				return Token{}, err
			}
			if !open {
				effective = ActionTeach
			}
		}
		// there are no chapter roles so we check the course instead
		courseID, err := r.dir.ChapterCourseID(ctx, resource.id)
		if err != nil {
			return Token{}, err
		}
		return r.checkCourse(ctx, roles, effective, courseID)
	case resCourse:
		return r.checkCourse(ctx, roles, action, resource.id)
	case resCourseInstance:
		return r.checkCourseInstance(ctx, roles, action, resource.id)
	case resExam:
		return r.checkExam(ctx, roles, action, resource.id)
	case resExercise:
		return r.checkOwner(ctx, roles, action, resource.id, r.dir.ExerciseCourseOrExamID)
	case resExerciseSlideSubmission:
		return r.checkOwner(ctx, roles, action, resource.id, r.dir.ExerciseSlideSubmissionCourseOrExamID)
	case resExerciseTask:
		return r.checkOwner(ctx, roles, action, resource.id, r.dir.ExerciseTaskCourseOrExamID)
	case resExerciseTaskSubmission:
		return r.checkOwner(ctx, roles, action, resource.id, r.dir.ExerciseTaskSubmissionCourseOrExamID)
	case resExerciseTaskGrading:
		return r.checkOwner(ctx, roles, action, resource.id, r.dir.ExerciseTaskGradingCourseOrExamID)
	case resPage:
		return r.checkOwner(ctx, roles, action, resource.id, r.dir.PageCourseOrExamID)
	case resOrganization:
		return r.checkOrganization(roles, action, resource.id)
	case resStudyRegistry:
		return r.checkStudyRegistry(ctx, resource.secretKey)
	case resMaterialReference:
		for _, role := range roles {
			if hasPermission(role.Role, action) {
				return grantedToken(), nil
			}
		}
		return Token{}, appErrors.ErrForbidden
	default:
		// Role, User, AnyCourse, PlaygroundExample, ExerciseService and
		// GlobalPermissions must have been allowed by the global or
		// any-course checks above; reaching here is a denial.
		r.logger.Debug("authorization denied",
			zap.String("action", action.String()),
			zap.String("resource", resource.String()),
		)
		return Token{}, appErrors.ErrForbidden
	}
}

// AuthorizeCourseMaterialAccess gates the material delivery path:
// published courses are public, drafts require ViewMaterial rights.
func (r *Resolver) AuthorizeCourseMaterialAccess(ctx context.Context, userID *uuid.UUID, courseID uuid.UUID) (Token, error) {
	draft, err := r.dir.CourseIsDraft(ctx, courseID)
	if err != nil {
		return Token{}, err
	}
	if !draft {
		return SkipAuthorize(), nil
	}
	if userID == nil {
		return Token{}, appErrors.Clone(appErrors.ErrUnauthorized, "the course is not public")
	}
	return r.Authorize(ctx, ActionViewMaterial, userID, ResourceCourse(courseID))
}

func (r *Resolver) checkOrganization(roles []models.Role, action Action, organizationID uuid.UUID) (Token, error) {
	// anyone can view an organization regardless of roles
	if action == ActionView {
		return grantedToken(), nil
	}

	for _, role := range roles {
		if role.IsRoleForOrganization(organizationID) && hasPermission(role.Role, action) {
			return grantedToken(), nil
		}
	}
	return Token{}, appErrors.ErrForbidden
}

// checkCourse also accepts organization roles, which are valid for the
// organization's courses.
func (r *Resolver) checkCourse(ctx context.Context, roles []models.Role, action Action, courseID uuid.UUID) (Token, error) {
	for _, role := range roles {
		if role.IsRoleForCourse(courseID) && hasPermission(role.Role, action) {
			return grantedToken(), nil
		}
	}
	organizationID, err := r.dir.CourseOrganizationID(ctx, courseID)
	if err != nil {
		return Token{}, err
	}
	return r.checkOrganization(roles, action, organizationID)
}

func (r *Resolver) checkCourseInstance(ctx context.Context, roles []models.Role, action Action, courseInstanceID uuid.UUID) (Token, error) {
	// viewing an unopened instance requires teaching rights
	if action == ActionView {
		open, err := r.dir.CourseInstanceIsOpen(ctx, courseInstanceID)
		if err != nil {
			return Token{}, err
		}
		if !open {
			action = ActionTeach
		}
	}

	for _, role := range roles {
		if role.IsRoleForCourseInstance(courseInstanceID) && hasPermission(role.Role, action) {
			return grantedToken(), nil
		}
	}
	courseID, err := r.dir.CourseInstanceCourseID(ctx, courseInstanceID)
	if err != nil {
		return Token{}, err
	}
	return r.checkCourse(ctx, roles, action, courseID)
}

// checkExam also accepts organization roles, which are valid for the
// organization's exams.
func (r *Resolver) checkExam(ctx context.Context, roles []models.Role, action Action, examID uuid.UUID) (Token, error) {
	for _, role := range roles {
		if role.IsRoleForExam(examID) && hasPermission(role.Role, action) {
			return grantedToken(), nil
		}
	}
	organizationID, err := r.dir.ExamOrganizationID(ctx, examID)
	if err != nil {
		return Token{}, err
	}
	return r.checkOrganization(roles, action, organizationID)
}

func (r *Resolver) checkOwner(
	ctx context.Context,
	roles []models.Role,
	action Action,
	id uuid.UUID,
	lookup func(context.Context, uuid.UUID) (models.CourseOrExamID, error),
) (Token, error) {
	owner, err := lookup(ctx, id)
	if err != nil {
		return Token{}, err
	}
	if owner.IsExam() {
		return r.checkExam(ctx, roles, action, *owner.ExamID)
	}
	return r.checkCourse(ctx, roles, action, *owner.CourseID)
}

// checkStudyRegistry authenticates by possession of the secret key; the
// action itself is not consulted.
func (r *Resolver) checkStudyRegistry(ctx context.Context, secretKey string) (Token, error) {
	exists, err := r.dir.RegistrarExistsBySecretKey(ctx, secretKey)
	if err != nil {
		return Token{}, err
	}
	if !exists {
		return Token{}, appErrors.ErrNotFound
	}
	return grantedToken(), nil
}
