package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

func bindRoute() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sample", func(c *gin.Context) {
		var payload samplePayload
		if !bindAndValidate(c, &payload) {
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestBindAndValidateRejectsMalformedJSON(t *testing.T) {
	r := bindRoute()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sample", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid JSON payload")
}

func TestBindAndValidateReportsFieldsByJSONName(t *testing.T) {
	r := bindRoute()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sample", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email must be a valid email address")
	assert.Contains(t, w.Body.String(), "name is required")
}

func TestBindAndValidateAcceptsValidPayload(t *testing.T) {
	r := bindRoute()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sample", strings.NewReader(`{"email":"a@b.edu","name":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
