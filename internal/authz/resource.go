package authz

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/eduside/lms-api/internal/models"
)

type resourceKind string

const (
	resGlobalPermissions       resourceKind = "global_permissions"
	resChapter                 resourceKind = "chapter"
	resCourse                  resourceKind = "course"
	resCourseInstance          resourceKind = "course_instance"
	resExam                    resourceKind = "exam"
	resExercise                resourceKind = "exercise"
	resExerciseSlideSubmission resourceKind = "exercise_slide_submission"
	resExerciseTask            resourceKind = "exercise_task"
	resExerciseTaskGrading     resourceKind = "exercise_task_grading"
	resExerciseTaskSubmission  resourceKind = "exercise_task_submission"
	resOrganization            resourceKind = "organization"
	resPage                    resourceKind = "page"
	resStudyRegistry           resourceKind = "study_registry"
	resAnyCourse               resourceKind = "any_course"
	resRole                    resourceKind = "role"
	resUser                    resourceKind = "user"
	resPlaygroundExample       resourceKind = "playground_example"
	resExerciseService         resourceKind = "exercise_service"
	resMaterialReference       resourceKind = "material_reference"
)

// Resource is the target of an authorization check: a kind plus the id
// of the concrete entity, or a secret key for study registries.
type Resource struct {
	kind      resourceKind
	id        uuid.UUID
	secretKey string
}

func ResourceGlobalPermissions() Resource        { return Resource{kind: resGlobalPermissions} }
func ResourceChapter(id uuid.UUID) Resource      { return Resource{kind: resChapter, id: id} }
func ResourceCourse(id uuid.UUID) Resource       { return Resource{kind: resCourse, id: id} }
func ResourceExam(id uuid.UUID) Resource         { return Resource{kind: resExam, id: id} }
func ResourceExercise(id uuid.UUID) Resource     { return Resource{kind: resExercise, id: id} }
func ResourcePage(id uuid.UUID) Resource         { return Resource{kind: resPage, id: id} }
func ResourceAnyCourse() Resource                { return Resource{kind: resAnyCourse} }
func ResourceOrganization(id uuid.UUID) Resource { return Resource{kind: resOrganization, id: id} }
func ResourceRole() Resource                     { return Resource{kind: resRole} }
func ResourceUser() Resource                     { return Resource{kind: resUser} }
func ResourcePlaygroundExample() Resource        { return Resource{kind: resPlaygroundExample} }
func ResourceExerciseService() Resource          { return Resource{kind: resExerciseService} }
func ResourceMaterialReference() Resource        { return Resource{kind: resMaterialReference} }

func ResourceCourseInstance(id uuid.UUID) Resource {
	return Resource{kind: resCourseInstance, id: id}
}

func ResourceExerciseSlideSubmission(id uuid.UUID) Resource {
	return Resource{kind: resExerciseSlideSubmission, id: id}
}

func ResourceExerciseTask(id uuid.UUID) Resource {
	return Resource{kind: resExerciseTask, id: id}
}

func ResourceExerciseTaskGrading(id uuid.UUID) Resource {
	return Resource{kind: resExerciseTaskGrading, id: id}
}

func ResourceExerciseTaskSubmission(id uuid.UUID) Resource {
	return Resource{kind: resExerciseTaskSubmission, id: id}
}

func ResourceStudyRegistry(secretKey string) Resource {
	return Resource{kind: resStudyRegistry, secretKey: secretKey}
}

// ResourceFromCourseOrExam maps a discriminated owner id to a resource.
func ResourceFromCourseOrExam(id models.CourseOrExamID) Resource {
	if id.IsExam() {
		return ResourceExam(*id.ExamID)
	}
	return ResourceCourse(*id.CourseID)
}

// String implements fmt.Stringer for logging.
func (r Resource) String() string {
	switch r.kind {
	case resStudyRegistry:
		return string(r.kind)
	case resGlobalPermissions, resAnyCourse, resRole, resUser, resPlaygroundExample, resExerciseService, resMaterialReference:
		return string(r.kind)
	default:
		return fmt.Sprintf("%s(%s)", r.kind, r.id)
	}
}
