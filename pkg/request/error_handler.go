package request

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/apperrors"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/response"
)

// Handler turns errors attached with c.Error into response envelopes when
// the handler did not write a response itself.
func Handler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		if last == nil || last.Err == nil {
			return
		}
		err := last.Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			var payload interface{} = appErr.Code()
			if fields := appErr.Fields(); len(fields) > 0 {
				payload = fields
			}
			if appErr.StatusCode() >= http.StatusInternalServerError {
				response.ErrorWithLog(logger, c, appErr.StatusCode(), appErr.Message(), err)
				return
			}
			response.Error(c, appErr.StatusCode(), appErr.Message(), payload)
			return
		}

		status, message := classify(err)
		response.ErrorWithLog(logger, c, status, message, err)
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, "Resource already exists"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
