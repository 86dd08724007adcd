package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eduside/lms-api/internal/service"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/response"
)

// OrganizationHandler exposes organization endpoints, including the
// organization-scoped course and exam listings.
type OrganizationHandler struct {
	organizations *service.OrganizationService
	courses       *service.CourseService
	exams         *service.ExamService
}

// NewOrganizationHandler constructs an organization handler.
func NewOrganizationHandler(organizations *service.OrganizationService, courses *service.CourseService, exams *service.ExamService) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations, courses: courses, exams: exams}
}

// List godoc
// @Summary List organizations
// @Tags Organizations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /organizations [get]
func (h *OrganizationHandler) List(c *gin.Context) {
	token, organizations, err := h.organizations.List(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, organizations, nil)
}

// Get godoc
// @Summary Get organization detail
// @Tags Organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} response.Envelope
// @Router /organizations/{id} [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid organization id"))
		return
	}
	token, organization, err := h.organizations.Get(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, organization, nil)
}

// Courses godoc
// @Summary List an organization's courses
// @Tags Organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /organizations/{id}/courses [get]
func (h *OrganizationHandler) Courses(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid organization id"))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	token, courses, pagination, err := h.courses.ListByOrganization(c.Request.Context(), userIDFromContext(c), id, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, courses, pagination)
}

// Exams godoc
// @Summary List an organization's exams
// @Tags Organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} response.Envelope
// @Router /organizations/{id}/exams [get]
func (h *OrganizationHandler) Exams(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid organization id"))
		return
	}
	token, exams, err := h.exams.ListByOrganization(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, exams, nil)
}
