package authz

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/response"
)

// Token proves that an authorization decision was made for the current
// request. Handlers can only emit a response body through a token, so a
// handler that never consulted the resolver cannot answer. The zero
// value is ungranted and is rejected by every emitting method; only the
// resolver and SkipAuthorize mint granted tokens. Tokens must not be
// stored or serialized.
type Token struct {
	granted bool
}

func grantedToken() Token {
	return Token{granted: true}
}

// SkipAuthorize returns a token without checking anything. Only for
// endpoints that are genuinely public.
func SkipAuthorize() Token {
	return grantedToken()
}

// JSON emits a success envelope through the capability token.
func (t Token) JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	if !t.granted {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "response emitted without authorization"))
		return
	}
	response.JSON(c, status, data, pagination)
}

// Created emits a 201 envelope through the capability token.
func (t Token) Created(c *gin.Context, data interface{}) {
	t.JSON(c, http.StatusCreated, data, nil)
}

// NoContent emits a 204 response through the capability token.
func (t Token) NoContent(c *gin.Context) {
	if !t.granted {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "response emitted without authorization"))
		return
	}
	response.NoContent(c)
}

// Blob emits raw bytes (e.g. a generated PDF) through the capability token.
func (t Token) Blob(c *gin.Context, status int, contentType string, body []byte) {
	if !t.granted {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "response emitted without authorization"))
		return
	}
	c.Data(status, contentType, body)
}
