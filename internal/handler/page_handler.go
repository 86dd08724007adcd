package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduside/lms-api/internal/models"
	"github.com/eduside/lms-api/internal/service"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/response"
)

// PageHandler exposes the authoring endpoints for pages.
type PageHandler struct {
	service *service.PageService
}

// NewPageHandler constructs a page handler.
func NewPageHandler(svc *service.PageService) *PageHandler {
	return &PageHandler{service: svc}
}

// Get godoc
// @Summary Get a page for editing
// @Tags Pages
// @Produce json
// @Param id path string true "Page ID"
// @Success 200 {object} response.Envelope
// @Router /pages/{id} [get]
func (h *PageHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid page id"))
		return
	}
	token, page, err := h.service.Get(c.Request.Context(), userIDFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, page, nil)
}

// UpdateContent godoc
// @Summary Save edited page content
// @Tags Pages
// @Accept json
// @Produce json
// @Param id path string true "Page ID"
// @Param payload body models.UpdatePageContent true "Content document"
// @Success 200 {object} response.Envelope
// @Router /pages/{id}/content [put]
func (h *PageHandler) UpdateContent(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid page id"))
		return
	}
	var req models.UpdatePageContent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	token, page, err := h.service.UpdateContent(c.Request.Context(), userIDFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, page, nil)
}
