package response

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope represents the standard API response shape.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      interface{} `json:"error,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// Success writes a success response with optional message and data.
func Success(c *gin.Context, status int, data interface{}, message string, pagination interface{}) {
	c.JSON(status, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// Created is a convenience helper for POST 201 responses.
func Created(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusCreated, data, message, nil)
}

// Error writes an error response capturing the message and optional error payload.
// Field maps are sent as-is; errors are reduced to their message.
func Error(c *gin.Context, status int, message string, err interface{}) {
	c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Error:   errorPayload(err),
	})
}

// ErrorWithLog writes an error response and logs the error via slog. Only
// server side failures are logged at error level.
func ErrorWithLog(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	logError(logger, c, status, message, err)
	Error(c, status, message, err)
}

// ErrorWithData writes an error response that also carries a data payload.
func ErrorWithData(logger *slog.Logger, c *gin.Context, status int, message string, data interface{}, err error) {
	logError(logger, c, status, message, err)

	c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Data:    data,
		Error:   errorPayload(err),
	})
}

func logError(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	if logger == nil || err == nil {
		return
	}

	attrs := []any{slog.Int("status", status), slog.String("error", err.Error())}
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), message, attrs...)
		return
	}
	logger.WarnContext(c.Request.Context(), message, attrs...)
}

func errorPayload(err interface{}) interface{} {
	switch v := err.(type) {
	case nil:
		return nil
	case error:
		return v.Error()
	default:
		return v
	}
}

// CacheFor marks the response as privately cacheable for maxAge seconds.
// A non-positive maxAge disables caching entirely.
func CacheFor(c *gin.Context, maxAge int) {
	if maxAge <= 0 {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		return
	}
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", maxAge))
}
