package request

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func bindRequest(body string) *apperrors.AppError {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var dest loginBody
	return BindJSON(c, &dest)
}

func TestBindJSON(t *testing.T) {
	assert.Nil(t, bindRequest(`{"email":"ana@citizengo.net","password":"longenough"}`))

	err := bindRequest(`{"email":"nope","password":"short"}`)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode())
	assert.Equal(t, map[string]string{
		"email":    "must be a valid email",
		"password": "must be at least 8 characters",
	}, err.Fields())

	err = bindRequest(`{"email":1}`)
	require.NotNil(t, err)
	assert.Equal(t, "must be a string", err.Fields()["email"])

	err = bindRequest(``)
	require.NotNil(t, err)
	assert.Equal(t, "Request body is required", err.Message())
}

func TestParseUUIDParam(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, err := ParseUUIDParam(c, "id")
	require.NotNil(t, err)
	assert.Equal(t, "Invalid ID format", err.Message())

	c.Params = gin.Params{{Key: "id", Value: "6f1c2d9e-8a4b-4c11-9f3a-2b7d5e6a1c00"}}
	id, err := ParseUUIDParam(c, "id")
	assert.Nil(t, err)
	assert.Equal(t, "6f1c2d9e-8a4b-4c11-9f3a-2b7d5e6a1c00", id.String())
}

func TestHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	router.Use(Handler(logger))
	router.GET("/missing", func(c *gin.Context) { _ = c.Error(gorm.ErrRecordNotFound) })
	router.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(apperrors.Conflict("A campaign with this name already exists", nil))
	})
	router.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/missing", status: http.StatusNotFound, body: "Resource not found"},
		{path: "/conflict", status: http.StatusConflict, body: "A campaign with this name already exists"},
		{path: "/boom", status: http.StatusInternalServerError, body: "Internal server error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, tt.path)
		assert.Contains(t, rec.Body.String(), tt.body, tt.path)
	}
}
