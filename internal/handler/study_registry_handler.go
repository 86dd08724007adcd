package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduside/lms-api/internal/service"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/response"
)

// StudyRegistryHandler serves completion exports to external study
// registries authenticating with a secret key header.
type StudyRegistryHandler struct {
	service *service.StudyRegistryService
}

// NewStudyRegistryHandler constructs a study registry handler.
func NewStudyRegistryHandler(svc *service.StudyRegistryService) *StudyRegistryHandler {
	return &StudyRegistryHandler{service: svc}
}

// CourseCompletions godoc
// @Summary Export a course's completions to a study registry
// @Tags StudyRegistry
// @Produce json
// @Param id path string true "Course ID"
// @Param Authorization header string true "Registrar secret key"
// @Success 200 {object} response.Envelope
// @Router /study-registry/courses/{id}/completions [get]
func (h *StudyRegistryHandler) CourseCompletions(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course id"))
		return
	}
	token, completions, err := h.service.CourseCompletions(c.Request.Context(), c.GetHeader("Authorization"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, completions, nil)
}
