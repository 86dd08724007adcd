package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduside/lms-api/internal/models"
	"github.com/eduside/lms-api/internal/service"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/response"
)

// CourseHandler exposes course management endpoints.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	token, course, err := h.service.Get(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.NewCourse true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req models.NewCourse
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	token, course, err := h.service.Create(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.UpdateCourse true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	var req models.UpdateCourse
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	token, course, err := h.service.Update(c.Request.Context(), userIDFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	token, err := h.service.Delete(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.NoContent(c)
}

// Duplicate godoc
// @Summary Duplicate a course with all of its material
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Source course ID"
// @Param payload body service.DuplicateCourseRequest true "New course payload"
// @Success 201 {object} response.Envelope
// @Router /courses/{id}/duplicate [post]
func (h *CourseHandler) Duplicate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	var req service.DuplicateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	token, course, err := h.service.Duplicate(c.Request.Context(), userIDFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.Created(c, course)
}

// Instances godoc
// @Summary List a course's instances
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/instances [get]
func (h *CourseHandler) Instances(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	token, instances, err := h.service.ListInstances(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, instances, nil)
}

// Modules godoc
// @Summary List a course's modules
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/modules [get]
func (h *CourseHandler) Modules(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	token, modules, err := h.service.ListModules(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, modules, nil)
}
