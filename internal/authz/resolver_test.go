package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

type mockDirectory struct {
	roles map[uuid.UUID][]models.Role

	chapterCourse map[uuid.UUID]uuid.UUID
	chapterOpen   map[uuid.UUID]bool

	courseOrganization map[uuid.UUID]uuid.UUID
	courseDraft        map[uuid.UUID]bool

	instanceOpen   map[uuid.UUID]bool
	instanceCourse map[uuid.UUID]uuid.UUID

	examOrganization map[uuid.UUID]uuid.UUID

	exerciseOwner map[uuid.UUID]models.CourseOrExamID
	pageOwner     map[uuid.UUID]models.CourseOrExamID

	registrarKeys map[string]bool
}

func (m *mockDirectory) GetRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	return m.roles[userID], nil
}

func (m *mockDirectory) ChapterCourseID(ctx context.Context, chapterID uuid.UUID) (uuid.UUID, error) {
	id, ok := m.chapterCourse[chapterID]
	if !ok {
		return uuid.Nil, appErrors.Clone(appErrors.ErrNotFound, "chapter not found")
	}
	return id, nil
}

func (m *mockDirectory) ChapterIsOpen(ctx context.Context, chapterID uuid.UUID) (bool, error) {
	return m.chapterOpen[chapterID], nil
}

func (m *mockDirectory) CourseOrganizationID(ctx context.Context, courseID uuid.UUID) (uuid.UUID, error) {
	id, ok := m.courseOrganization[courseID]
	if !ok {
		return uuid.Nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return id, nil
}

func (m *mockDirectory) CourseIsDraft(ctx context.Context, courseID uuid.UUID) (bool, error) {
	draft, ok := m.courseDraft[courseID]
	if !ok {
		return false, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return draft, nil
}

func (m *mockDirectory) CourseInstanceIsOpen(ctx context.Context, courseInstanceID uuid.UUID) (bool, error) {
	return m.instanceOpen[courseInstanceID], nil
}

func (m *mockDirectory) CourseInstanceCourseID(ctx context.Context, courseInstanceID uuid.UUID) (uuid.UUID, error) {
	id, ok := m.instanceCourse[courseInstanceID]
	if !ok {
		return uuid.Nil, appErrors.Clone(appErrors.ErrNotFound, "course instance not found")
	}
	return id, nil
}

func (m *mockDirectory) ExamOrganizationID(ctx context.Context, examID uuid.UUID) (uuid.UUID, error) {
	id, ok := m.examOrganization[examID]
	if !ok {
		return uuid.Nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	}
	return id, nil
}

func (m *mockDirectory) ExerciseCourseOrExamID(ctx context.Context, exerciseID uuid.UUID) (models.CourseOrExamID, error) {
	owner, ok := m.exerciseOwner[exerciseID]
	if !ok {
		return models.CourseOrExamID{}, appErrors.Clone(appErrors.ErrNotFound, "exercise not found")
	}
	return owner, nil
}

func (m *mockDirectory) ExerciseSlideSubmissionCourseOrExamID(ctx context.Context, submissionID uuid.UUID) (models.CourseOrExamID, error) {
	return models.CourseOrExamID{}, errors.New("not wired in this test")
}

func (m *mockDirectory) ExerciseTaskCourseOrExamID(ctx context.Context, taskID uuid.UUID) (models.CourseOrExamID, error) {
	return models.CourseOrExamID{}, errors.New("not wired in this test")
}

func (m *mockDirectory) ExerciseTaskSubmissionCourseOrExamID(ctx context.Context, submissionID uuid.UUID) (models.CourseOrExamID, error) {
	return models.CourseOrExamID{}, errors.New("not wired in this test")
}

func (m *mockDirectory) ExerciseTaskGradingCourseOrExamID(ctx context.Context, gradingID uuid.UUID) (models.CourseOrExamID, error) {
	return models.CourseOrExamID{}, errors.New("not wired in this test")
}

func (m *mockDirectory) PageCourseOrExamID(ctx context.Context, pageID uuid.UUID) (models.CourseOrExamID, error) {
	owner, ok := m.pageOwner[pageID]
	if !ok {
		return models.CourseOrExamID{}, appErrors.Clone(appErrors.ErrNotFound, "page not found")
	}
	return owner, nil
}

func (m *mockDirectory) RegistrarExistsBySecretKey(ctx context.Context, secretKey string) (bool, error) {
	return m.registrarKeys[secretKey], nil
}

func globalRole(userID uuid.UUID, role models.UserRole) models.Role {
	return models.Role{ID: uuid.New(), UserID: userID, Role: role}
}

func courseRole(userID, courseID uuid.UUID, role models.UserRole) models.Role {
	return models.Role{ID: uuid.New(), UserID: userID, Role: role, CourseID: &courseID}
}

func organizationRole(userID, organizationID uuid.UUID, role models.UserRole) models.Role {
	return models.Role{ID: uuid.New(), UserID: userID, Role: role, OrganizationID: &organizationID}
}

func TestGlobalRoleAllowsEverything(t *testing.T) {
	userID := uuid.New()
	dir := &mockDirectory{roles: map[uuid.UUID][]models.Role{
		userID: {globalRole(userID, models.RoleAdmin)},
	}}
	resolver := NewResolver(dir, zap.NewNop())

	resources := []Resource{
		ResourceGlobalPermissions(),
		ResourceCourse(uuid.New()),
		ResourceOrganization(uuid.New()),
		ResourceExam(uuid.New()),
		ResourceRole(),
		ResourceUser(),
	}
	for _, resource := range resources {
		_, err := resolver.Authorize(context.Background(), ActionUsuallyUnacceptableDeletion, &userID, resource)
		assert.NoError(t, err, "admin should pass on %s", resource)
	}
}

func TestAnonymousCanViewOrganization(t *testing.T) {
	dir := &mockDirectory{}
	resolver := NewResolver(dir, zap.NewNop())

	_, err := resolver.Authorize(context.Background(), ActionView, nil, ResourceOrganization(uuid.New()))
	assert.NoError(t, err)

	_, err = resolver.Authorize(context.Background(), ActionEdit, nil, ResourceOrganization(uuid.New()))
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestCourseRoleFallsBackToOrganization(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	organizationID := uuid.New()
	dir := &mockDirectory{
		roles: map[uuid.UUID][]models.Role{
			userID: {organizationRole(userID, organizationID, models.RoleTeacher)},
		},
		courseOrganization: map[uuid.UUID]uuid.UUID{courseID: organizationID},
	}
	resolver := NewResolver(dir, zap.NewNop())

	_, err := resolver.Authorize(context.Background(), ActionEdit, &userID, ResourceCourse(courseID))
	assert.NoError(t, err, "organization teacher edits the organization's courses")

	otherCourse := uuid.New()
	dir.courseOrganization[otherCourse] = uuid.New()
	_, err = resolver.Authorize(context.Background(), ActionEdit, &userID, ResourceCourse(otherCourse))
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestUnopenedChapterViewRequiresTeach(t *testing.T) {
	courseID := uuid.New()
	chapterID := uuid.New()
	reviewerID := uuid.New()
	teacherID := uuid.New()
	dir := &mockDirectory{
		roles: map[uuid.UUID][]models.Role{
			reviewerID: {courseRole(reviewerID, courseID, models.RoleReviewer)},
			teacherID:  {courseRole(teacherID, courseID, models.RoleTeacher)},
		},
		chapterCourse:      map[uuid.UUID]uuid.UUID{chapterID: courseID},
		chapterOpen:        map[uuid.UUID]bool{chapterID: false},
		courseOrganization: map[uuid.UUID]uuid.UUID{courseID: uuid.New()},
	}
	resolver := NewResolver(dir, zap.NewNop())

	_, err := resolver.Authorize(context.Background(), ActionView, &reviewerID, ResourceChapter(chapterID))
	assert.ErrorIs(t, err, appErrors.ErrForbidden, "a reviewer cannot preview an unopened chapter")

	_, err = resolver.Authorize(context.Background(), ActionView, &teacherID, ResourceChapter(chapterID))
	assert.NoError(t, err, "a teacher previews unopened chapters")

	dir.chapterOpen[chapterID] = true
	_, err = resolver.Authorize(context.Background(), ActionView, &reviewerID, ResourceChapter(chapterID))
	assert.NoError(t, err, "once open the chapter only needs view rights")
}

func TestUnopenedCourseInstanceViewRequiresTeach(t *testing.T) {
	courseID := uuid.New()
	instanceID := uuid.New()
	userID := uuid.New()
	dir := &mockDirectory{
		roles: map[uuid.UUID][]models.Role{
			userID: {courseRole(userID, courseID, models.RoleReviewer)},
		},
		instanceOpen:       map[uuid.UUID]bool{instanceID: false},
		instanceCourse:     map[uuid.UUID]uuid.UUID{instanceID: courseID},
		courseOrganization: map[uuid.UUID]uuid.UUID{courseID: uuid.New()},
	}
	resolver := NewResolver(dir, zap.NewNop())

	_, err := resolver.Authorize(context.Background(), ActionView, &userID, ResourceCourseInstance(instanceID))
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	dir.instanceOpen[instanceID] = true
	_, err = resolver.Authorize(context.Background(), ActionView, &userID, ResourceCourseInstance(instanceID))
	assert.NoError(t, err)
}

func TestAnyCourseIgnoresRoleDomain(t *testing.T) {
	userID := uuid.New()
	dir := &mockDirectory{roles: map[uuid.UUID][]models.Role{
		userID: {courseRole(userID, uuid.New(), models.RoleTeacher)},
	}}
	resolver := NewResolver(dir, zap.NewNop())

	_, err := resolver.Authorize(context.Background(), ActionCreateCoursesOrExams, &userID, ResourceAnyCourse())
	assert.NoError(t, err, "a role in any course is enough for the any-course resource")
}

func TestExerciseCheckedThroughOwner(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	exerciseID := uuid.New()
	examID := uuid.New()
	examExerciseID := uuid.New()
	organizationID := uuid.New()
	dir := &mockDirectory{
		roles: map[uuid.UUID][]models.Role{
			userID: {courseRole(userID, courseID, models.RoleTeacher)},
		},
		courseOrganization: map[uuid.UUID]uuid.UUID{courseID: organizationID},
		examOrganization:   map[uuid.UUID]uuid.UUID{examID: organizationID},
		exerciseOwner: map[uuid.UUID]models.CourseOrExamID{
			exerciseID:     {CourseID: &courseID},
			examExerciseID: {ExamID: &examID},
		},
	}
	resolver := NewResolver(dir, zap.NewNop())

	_, err := resolver.Authorize(context.Background(), ActionTeach, &userID, ResourceExercise(exerciseID))
	assert.NoError(t, err)

	_, err = resolver.Authorize(context.Background(), ActionTeach, &userID, ResourceExercise(examExerciseID))
	assert.ErrorIs(t, err, appErrors.ErrForbidden, "a course role does not extend to exam exercises")

	_, err = resolver.Authorize(context.Background(), ActionTeach, &userID, ResourceExercise(uuid.New()))
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudyRegistryAuthenticatesBySecretKey(t *testing.T) {
	dir := &mockDirectory{registrarKeys: map[string]bool{"registrar-key": true}}
	resolver := NewResolver(dir, zap.NewNop())

	_, err := resolver.Authorize(context.Background(), ActionView, nil, ResourceStudyRegistry("registrar-key"))
	assert.NoError(t, err)

	_, err = resolver.Authorize(context.Background(), ActionView, nil, ResourceStudyRegistry("wrong-key"))
	assert.ErrorIs(t, err, appErrors.ErrNotFound, "unknown keys look like a missing resource")
}

func TestRestrictedResourcesDefaultDeny(t *testing.T) {
	userID := uuid.New()
	dir := &mockDirectory{roles: map[uuid.UUID][]models.Role{
		userID: {courseRole(userID, uuid.New(), models.RoleTeacher)},
	}}
	resolver := NewResolver(dir, zap.NewNop())

	resources := []Resource{
		ResourceGlobalPermissions(),
		ResourceRole(),
		ResourceUser(),
		ResourcePlaygroundExample(),
		ResourceExerciseService(),
	}
	for _, resource := range resources {
		_, err := resolver.Authorize(context.Background(), ActionView, &userID, resource)
		assert.ErrorIs(t, err, appErrors.ErrForbidden, "%s must only pass with a global role", resource)
	}
}

func TestMaterialAccessForDrafts(t *testing.T) {
	courseID := uuid.New()
	draftID := uuid.New()
	viewerID := uuid.New()
	strangerID := uuid.New()
	organizationID := uuid.New()
	dir := &mockDirectory{
		roles: map[uuid.UUID][]models.Role{
			viewerID: {courseRole(viewerID, draftID, models.RoleMaterialViewer)},
		},
		courseDraft:        map[uuid.UUID]bool{courseID: false, draftID: true},
		courseOrganization: map[uuid.UUID]uuid.UUID{draftID: organizationID},
	}
	resolver := NewResolver(dir, zap.NewNop())

	_, err := resolver.AuthorizeCourseMaterialAccess(context.Background(), nil, courseID)
	require.NoError(t, err, "published courses are public")

	_, err = resolver.AuthorizeCourseMaterialAccess(context.Background(), nil, draftID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized, "anonymous callers are asked to sign in for drafts")

	_, err = resolver.AuthorizeCourseMaterialAccess(context.Background(), &viewerID, draftID)
	assert.NoError(t, err)

	_, err = resolver.AuthorizeCourseMaterialAccess(context.Background(), &strangerID, draftID)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}
