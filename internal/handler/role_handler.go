package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eduside/lms-api/internal/models"
	"github.com/eduside/lms-api/internal/service"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/response"
)

// RoleHandler exposes role management endpoints. The domain is passed
// in query parameters so one route serves every scope.
type RoleHandler struct {
	service *service.RoleService
}

// NewRoleHandler constructs a role handler.
func NewRoleHandler(svc *service.RoleService) *RoleHandler {
	return &RoleHandler{service: svc}
}

// List godoc
// @Summary List role assignments in a domain
// @Tags Roles
// @Produce json
// @Param kind query string true "Domain kind" Enums(global, organization, course, course_instance, exam)
// @Param id query string false "Domain entity ID"
// @Success 200 {object} response.Envelope
// @Router /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	domain, err := domainFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	token, roles, err := h.service.List(c.Request.Context(), userIDFromContext(c), domain)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.JSON(c, http.StatusOK, roles, nil)
}

// Set godoc
// @Summary Grant a role within a domain
// @Tags Roles
// @Accept json
// @Param payload body models.ModifyRoleRequest true "Role payload"
// @Success 204
// @Router /roles [post]
func (h *RoleHandler) Set(c *gin.Context) {
	var req models.ModifyRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	token, err := h.service.Set(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.NoContent(c)
}

// Unset godoc
// @Summary Revoke a role within a domain
// @Tags Roles
// @Accept json
// @Param payload body models.ModifyRoleRequest true "Role payload"
// @Success 204
// @Router /roles [delete]
func (h *RoleHandler) Unset(c *gin.Context) {
	var req models.ModifyRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	token, err := h.service.Unset(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	token.NoContent(c)
}

func domainFromQuery(c *gin.Context) (models.RoleDomain, error) {
	kind := models.RoleDomainKind(c.Query("kind"))
	domain := models.RoleDomain{Kind: kind}
	if raw := c.Query("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return models.RoleDomain{}, appErrors.Clone(appErrors.ErrValidation, "invalid domain id")
		}
		domain.ID = &id
	}
	return domain, nil
}
