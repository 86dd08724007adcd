package copying

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

const courseColumns = `id, name, slug, organization_id, language_code, content_search_language,
  course_language_group_id, description, is_draft, is_test_mode, copied_from,
  base_module_completion_requires_n_submodule_completions, created_at, updated_at, deleted_at`

const examColumns = `id, name, organization_id, instructions, language, starts_at, ends_at,
  time_minutes, minimum_points_threshold, created_at, updated_at, deleted_at`

// Engine deep-copies a course or exam into a fresh namespace of
// deterministically derived ids and rewrites the exercise references
// embedded in copied page content. Each copy runs in one transaction;
// any failure rolls the whole copy back. The source is never mutated,
// so concurrent copies of the same source are safe.
type Engine struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewEngine creates a duplication engine.
func NewEngine(db *sqlx.DB, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{db: db, logger: logger}
}

type copiedPage struct {
	ID      uuid.UUID       `db:"id"`
	Content json.RawMessage `db:"content"`
}

// CopyCourse duplicates the course and everything under it: modules,
// chapters, pages, exercises, slides and tasks, plus a default instance
// for the new course. The new course reuses the source's language group
// when sameLanguageGroup is set, otherwise a fresh group is allocated.
func (e *Engine) CopyCourse(ctx context.Context, courseID uuid.UUID, newCourse models.NewCourse, sameLanguageGroup bool) (*models.Course, error) {
	var source models.Course
	err := e.db.GetContext(ctx, &source, `
SELECT `+courseColumns+`
FROM courses
WHERE id = $1
  AND deleted_at IS NULL`, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source course")
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin copy transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	languageGroupID := source.CourseLanguageGroupID
	if !sameLanguageGroup {
		languageGroupID = uuid.New()
		if _, err := tx.ExecContext(ctx, `INSERT INTO course_language_groups (id) VALUES ($1)`, languageGroupID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course language group")
		}
	}

	var copied models.Course
	err = tx.GetContext(ctx, &copied, `
INSERT INTO courses (
    id,
    name,
    slug,
    organization_id,
    language_code,
    content_search_language,
    course_language_group_id,
    description,
    is_draft,
    is_test_mode,
    copied_from,
    base_module_completion_requires_n_submodule_completions
  )
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING `+courseColumns,
		uuid.New(),
		newCourse.Name,
		newCourse.Slug,
		newCourse.OrganizationID,
		newCourse.LanguageCode,
		source.ContentSearchLanguage,
		languageGroupID,
		newCourse.Description,
		newCourse.IsDraft,
		newCourse.IsTestMode,
		source.ID,
		source.BaseModuleCompletionCount,
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert copied course")
	}

	if err := e.copyCourseModules(ctx, tx, copied.ID, courseID); err != nil {
		return nil, err
	}
	if err := e.copyChapters(ctx, tx, copied.ID, courseID); err != nil {
		return nil, err
	}
	// At this point exercise ids inside the copied contents still point
	// to the source course's exercises.
	contents, err := e.copyCoursePages(ctx, tx, copied.ID, courseID)
	if err != nil {
		return nil, err
	}
	if err := e.setChapterFrontPages(ctx, tx, copied.ID); err != nil {
		return nil, err
	}
	if err := e.copyCourseExercises(ctx, tx, copied.ID, courseID); err != nil {
		return nil, err
	}
	oldToNew, err := e.exerciseIDMap(ctx, tx, copied.ID, `SELECT id FROM exercises WHERE course_id = $1 AND deleted_at IS NULL`, courseID)
	if err != nil {
		return nil, err
	}
	if err := e.rewriteCopiedContents(ctx, tx, contents, oldToNew); err != nil {
		return nil, err
	}
	if err := e.copyExerciseSlides(ctx, tx, copied.ID, courseID); err != nil {
		return nil, err
	}
	if err := e.copyExerciseTasks(ctx, tx, copied.ID, courseID); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO course_instances (id, course_id, teacher_in_charge_name, teacher_in_charge_email)
VALUES ($1, $2, $3, $4)`,
		uuid.New(), copied.ID, newCourse.TeacherInChargeName, newCourse.TeacherInChargeEmail,
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create default course instance")
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit course copy")
	}

	e.logger.Info("course copied",
		zap.String("source_course_id", source.ID.String()),
		zap.String("copied_course_id", copied.ID.String()),
		zap.Bool("same_language_group", sameLanguageGroup),
	)
	return &copied, nil
}

// CopyExam duplicates an exam and its pages, exercises, slides and
// tasks. The copy stays in the source exam's organization and language;
// name and scheduling come from the new exam descriptor.
func (e *Engine) CopyExam(ctx context.Context, examID uuid.UUID, newExam models.NewExam) (*models.ExamWithPage, error) {
	var source models.Exam
	err := e.db.GetContext(ctx, &source, `
SELECT `+examColumns+`
FROM exams
WHERE id = $1
  AND deleted_at IS NULL`, examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source exam")
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin copy transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	var copied models.Exam
	err = tx.GetContext(ctx, &copied, `
INSERT INTO exams (
    id,
    name,
    organization_id,
    instructions,
    language,
    starts_at,
    ends_at,
    time_minutes,
    minimum_points_threshold
  )
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING `+examColumns,
		uuid.New(),
		newExam.Name,
		source.OrganizationID,
		source.Instructions,
		source.Language,
		newExam.StartsAt,
		newExam.EndsAt,
		newExam.TimeMinutes,
		source.MinimumPointsThreshold,
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert copied exam")
	}

	contents, err := e.copyExamPages(ctx, tx, copied.ID, examID)
	if err != nil {
		return nil, err
	}
	if err := e.copyExamExercises(ctx, tx, copied.ID, examID); err != nil {
		return nil, err
	}
	oldToNew, err := e.exerciseIDMap(ctx, tx, copied.ID, `SELECT id FROM exercises WHERE exam_id = $1 AND deleted_at IS NULL`, examID)
	if err != nil {
		return nil, err
	}
	if err := e.rewriteCopiedContents(ctx, tx, contents, oldToNew); err != nil {
		return nil, err
	}
	if err := e.copyExerciseSlides(ctx, tx, copied.ID, examID); err != nil {
		return nil, err
	}
	if err := e.copyExerciseTasks(ctx, tx, copied.ID, examID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit exam copy")
	}

	var pageID uuid.UUID
	err = e.db.GetContext(ctx, &pageID, `SELECT id FROM pages WHERE exam_id = $1`, copied.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up copied exam page")
	}

	e.logger.Info("exam copied",
		zap.String("source_exam_id", source.ID.String()),
		zap.String("copied_exam_id", copied.ID.String()),
	)
	return &models.ExamWithPage{
		Exam:   copied,
		PageID: pageID,
		// a freshly copied exam has no linked courses
		Courses: []models.Course{},
	}, nil
}

func (e *Engine) copyCourseModules(ctx context.Context, tx *sqlx.Tx, namespaceID, sourceCourseID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO course_modules (id, course_id, name, order_number, copied_from)
SELECT uuid_generate_v5($1, id::text),
  $1,
  name,
  order_number,
  id
FROM course_modules
WHERE course_id = $2
  AND deleted_at IS NULL`, namespaceID, sourceCourseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy course modules")
	}
	return nil
}

// copyChapters keeps front_page_id pointing at the source page for now;
// setChapterFrontPages rewrites it once the copied pages exist.
func (e *Engine) copyChapters(ctx context.Context, tx *sqlx.Tx, namespaceID, sourceCourseID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO chapters (id, name, course_id, course_module_id, chapter_number, front_page_id, opens_at, chapter_image_path, copied_from)
SELECT uuid_generate_v5($1, id::text),
  name,
  $1,
  uuid_generate_v5($1, course_module_id::text),
  chapter_number,
  front_page_id,
  opens_at,
  chapter_image_path,
  id
FROM chapters
WHERE course_id = $2
  AND deleted_at IS NULL`, namespaceID, sourceCourseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy chapters")
	}
	return nil
}

func (e *Engine) copyCoursePages(ctx context.Context, tx *sqlx.Tx, namespaceID, sourceCourseID uuid.UUID) ([]copiedPage, error) {
	var pages []copiedPage
	err := tx.SelectContext(ctx, &pages, `
INSERT INTO pages (id, course_id, content, url_path, title, chapter_id, order_number, content_search_language, copied_from)
SELECT uuid_generate_v5($1, id::text),
  $1,
  content,
  url_path,
  title,
  uuid_generate_v5($1, chapter_id::text),
  order_number,
  content_search_language,
  id
FROM pages
WHERE course_id = $2
  AND deleted_at IS NULL
RETURNING id, content`, namespaceID, sourceCourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy pages")
	}
	return pages, nil
}

func (e *Engine) copyExamPages(ctx context.Context, tx *sqlx.Tx, namespaceID, sourceExamID uuid.UUID) ([]copiedPage, error) {
	var pages []copiedPage
	err := tx.SelectContext(ctx, &pages, `
INSERT INTO pages (id, exam_id, content, url_path, title, chapter_id, order_number, content_search_language, copied_from)
SELECT uuid_generate_v5($1, id::text),
  $1,
  content,
  url_path,
  title,
  uuid_generate_v5($1, chapter_id::text),
  order_number,
  content_search_language,
  id
FROM pages
WHERE exam_id = $2
  AND deleted_at IS NULL
RETURNING id, content`, namespaceID, sourceExamID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy pages")
	}
	return pages, nil
}

// setChapterFrontPages rewrites the placeholder front page pointers by
// applying the same derivation the page copy used.
func (e *Engine) setChapterFrontPages(ctx context.Context, tx *sqlx.Tx, namespaceID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
UPDATE chapters
SET front_page_id = uuid_generate_v5(course_id, front_page_id::text)
WHERE course_id = $1
  AND front_page_id IS NOT NULL`, namespaceID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update chapter front pages")
	}
	return nil
}

func (e *Engine) copyCourseExercises(ctx context.Context, tx *sqlx.Tx, namespaceID, sourceCourseID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO exercises (id, course_id, name, deadline, page_id, score_maximum, order_number, chapter_id, copied_from)
SELECT uuid_generate_v5($1, id::text),
  $1,
  name,
  deadline,
  uuid_generate_v5($1, page_id::text),
  score_maximum,
  order_number,
  uuid_generate_v5($1, chapter_id::text),
  id
FROM exercises
WHERE course_id = $2
  AND deleted_at IS NULL`, namespaceID, sourceCourseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy exercises")
	}
	return nil
}

func (e *Engine) copyExamExercises(ctx context.Context, tx *sqlx.Tx, namespaceID, sourceExamID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO exercises (id, exam_id, name, deadline, page_id, score_maximum, order_number, chapter_id, copied_from)
SELECT uuid_generate_v5($1, id::text),
  $1,
  name,
  deadline,
  uuid_generate_v5($1, page_id::text),
  score_maximum,
  order_number,
  uuid_generate_v5($1, chapter_id::text),
  id
FROM exercises
WHERE exam_id = $2
  AND deleted_at IS NULL`, namespaceID, sourceExamID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy exercises")
	}
	return nil
}

// exerciseIDMap maps each source exercise id to its copy's id. The copy
// ids are recomputed with DeriveID, the same function the insert used,
// so no data needs to round-trip through the insert.
func (e *Engine) exerciseIDMap(ctx context.Context, tx *sqlx.Tx, namespaceID uuid.UUID, sourceQuery string, sourceID uuid.UUID) (map[string]string, error) {
	var sourceExerciseIDs []uuid.UUID
	if err := tx.SelectContext(ctx, &sourceExerciseIDs, sourceQuery, sourceID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list source exercises")
	}

	oldToNew := make(map[string]string, len(sourceExerciseIDs))
	for _, oldID := range sourceExerciseIDs {
		oldToNew[oldID.String()] = DeriveID(namespaceID, oldID).String()
	}
	return oldToNew, nil
}

// rewriteCopiedContents replaces the exercise references embedded in
// the copied pages' contents and persists the rewritten documents.
func (e *Engine) rewriteCopiedContents(ctx context.Context, tx *sqlx.Tx, pages []copiedPage, oldToNew map[string]string) error {
	for _, page := range pages {
		rewritten, changed, err := rewriteExerciseReferences(page.Content, oldToNew)
		if err != nil {
			return err
		}
		if !changed {
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE pages SET content = $1 WHERE id = $2`, []byte(rewritten), page.ID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update copied page content")
		}
	}
	return nil
}

func (e *Engine) copyExerciseSlides(ctx context.Context, tx *sqlx.Tx, namespaceID, sourceID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO exercise_slides (id, exercise_id, order_number)
SELECT uuid_generate_v5($1, id::text),
  uuid_generate_v5($1, exercise_id::text),
  order_number
FROM exercise_slides
WHERE exercise_id IN (
    SELECT id
    FROM exercises
    WHERE (course_id = $2 OR exam_id = $2)
      AND deleted_at IS NULL
  )
  AND deleted_at IS NULL`, namespaceID, sourceID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy exercise slides")
	}
	return nil
}

func (e *Engine) copyExerciseTasks(ctx context.Context, tx *sqlx.Tx, namespaceID, sourceID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO exercise_tasks (id, exercise_slide_id, exercise_type, assignment, private_spec, public_spec, model_solution_spec, order_number, copied_from)
SELECT uuid_generate_v5($1, id::text),
  uuid_generate_v5($1, exercise_slide_id::text),
  exercise_type,
  assignment,
  private_spec,
  public_spec,
  model_solution_spec,
  order_number,
  id
FROM exercise_tasks
WHERE exercise_slide_id IN (
    SELECT s.id
    FROM exercise_slides s
      JOIN exercises e ON e.id = s.exercise_id
    WHERE (e.course_id = $2 OR e.exam_id = $2)
      AND e.deleted_at IS NULL
      AND s.deleted_at IS NULL
  )
  AND deleted_at IS NULL`, namespaceID, sourceID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy exercise tasks")
	}
	return nil
}
