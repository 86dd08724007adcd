package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eduside/lms-api/internal/service"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/response"
)

// CertificateHandler serves completion certificates as PDFs.
type CertificateHandler struct {
	service *service.CertificateService
}

// NewCertificateHandler constructs a certificate handler.
func NewCertificateHandler(svc *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: svc}
}

// Download godoc
// @Summary Download a completion certificate
// @Tags Certificates
// @Produce application/pdf
// @Param module_id path string true "Course module ID"
// @Param user_id query string false "Target user ID, defaults to the caller"
// @Success 200 {file} binary
// @Router /course-modules/{module_id}/certificate [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	moduleID, ok := parseUUIDParam(c, "module_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course module id"))
		return
	}

	callerID := userIDFromContext(c)
	targetUserID := uuid.Nil
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user id"))
			return
		}
		targetUserID = parsed
	} else if callerID != nil {
		targetUserID = *callerID
	}
	if targetUserID == uuid.Nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	token, pdf, err := h.service.Generate(c.Request.Context(), callerID, targetUserID, moduleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="certificate.pdf"`)
	token.Blob(c, http.StatusOK, "application/pdf", pdf)
}
