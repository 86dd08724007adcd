package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduside/lms-api/internal/service"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/response"
)

// MaterialHandler exposes the read side of course material. These
// routes run behind optional authentication: published courses are
// readable without a session.
type MaterialHandler struct {
	material  *service.MaterialService
	exercises *service.ExerciseService
}

// NewMaterialHandler constructs a material handler.
func NewMaterialHandler(material *service.MaterialService, exercises *service.ExerciseService) *MaterialHandler {
	return &MaterialHandler{material: material, exercises: exercises}
}

// Page godoc
// @Summary Get a course page by url path
// @Tags Material
// @Produce json
// @Param id path string true "Course ID"
// @Param url_path query string true "Page url path"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/material/page [get]
func (h *MaterialHandler) Page(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	urlPath := c.Query("url_path")
	if urlPath == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "url_path is required"))
		return
	}
	token, page, err := h.material.GetPage(c.Request.Context(), userIDFromContext(c), id, urlPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, page, nil)
}

// Pages godoc
// @Summary List a course's pages
// @Tags Material
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/material/pages [get]
func (h *MaterialHandler) Pages(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	token, pages, err := h.material.ListPages(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, pages, nil)
}

// Chapters godoc
// @Summary List a course's chapters
// @Tags Material
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/material/chapters [get]
func (h *MaterialHandler) Chapters(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	token, chapters, err := h.material.ListChapters(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, chapters, nil)
}

// Exercises godoc
// @Summary List a course's exercises
// @Tags Material
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/exercises [get]
func (h *MaterialHandler) Exercises(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	token, exercises, err := h.exercises.ListByCourse(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, exercises, nil)
}

// Exercise godoc
// @Summary Get an exercise with slides and tasks
// @Tags Material
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} response.Envelope
// @Router /exercises/{id} [get]
func (h *MaterialHandler) Exercise(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exercise id"))
		return
	}
	token, exercise, err := h.exercises.Get(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, exercise, nil)
}
