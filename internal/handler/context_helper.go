package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eduside/lms-api/internal/middleware"
	"github.com/eduside/lms-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// userIDFromContext returns the authenticated user's id, or nil for an
// anonymous caller.
func userIDFromContext(c *gin.Context) *uuid.UUID {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
