package models

import "github.com/google/uuid"

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// CourseOrExamID discriminates between the two owners a piece of
// material can belong to. Exactly one side is set.
type CourseOrExamID struct {
	CourseID *uuid.UUID `db:"course_id" json:"course_id,omitempty"`
	ExamID   *uuid.UUID `db:"exam_id" json:"exam_id,omitempty"`
}

// ForCourse tags an id as belonging to a course.
func ForCourse(id uuid.UUID) CourseOrExamID {
	return CourseOrExamID{CourseID: &id}
}

// ForExam tags an id as belonging to an exam.
func ForExam(id uuid.UUID) CourseOrExamID {
	return CourseOrExamID{ExamID: &id}
}

// IsExam reports whether the owner is an exam.
func (c CourseOrExamID) IsExam() bool {
	return c.ExamID != nil
}
