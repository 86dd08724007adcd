package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduside/lms-api/internal/models"
	"github.com/eduside/lms-api/internal/service"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/response"
)

// ExamHandler exposes exam endpoints.
type ExamHandler struct {
	service *service.ExamService
}

// NewExamHandler constructs an exam handler.
func NewExamHandler(svc *service.ExamService) *ExamHandler {
	return &ExamHandler{service: svc}
}

// Get godoc
// @Summary Get exam detail
// @Tags Exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id} [get]
func (h *ExamHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exam id"))
		return
	}
	token, exam, err := h.service.Get(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, exam, nil)
}

// Duplicate godoc
// @Summary Duplicate an exam with all of its material
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path string true "Source exam ID"
// @Param payload body models.NewExam true "New exam payload"
// @Success 201 {object} response.Envelope
// @Router /exams/{id}/duplicate [post]
func (h *ExamHandler) Duplicate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exam id"))
		return
	}
	var req models.NewExam
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	token, exam, err := h.service.Duplicate(c.Request.Context(), userIDFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.Created(c, exam)
}
