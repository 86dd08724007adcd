package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func TestZeroTokenCannotEmit(t *testing.T) {
	var token Token

	c, rec := newTestContext(t)
	token.JSON(c, http.StatusOK, gin.H{"leaked": true}, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "leaked")

	c, rec = newTestContext(t)
	token.NoContent(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	c, rec = newTestContext(t)
	token.Blob(c, http.StatusOK, "application/pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "%PDF")
}

func TestGrantedTokenEmits(t *testing.T) {
	token := SkipAuthorize()

	c, rec := newTestContext(t)
	token.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)

	c, rec = newTestContext(t)
	token.Created(c, gin.H{"id": "abc"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newTestContext(t)
	token.NoContent(c)
	// c.Status defers the header write; the real engine flushes it at the
	// end of the handler chain, but CreateTestContext never does.
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newTestContext(t)
	token.Blob(c, http.StatusOK, "application/pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}
