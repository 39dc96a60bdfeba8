package request

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/apperrors"
)

// ValidationFailed is the message used for every rejected request body.
const ValidationFailed = "Validation failed"

// BindJSON decodes the body into dest and reports binding failures as a
// validation AppError keyed by JSON field name.
func BindJSON(c *gin.Context, dest interface{}) *apperrors.AppError {
	err := c.ShouldBindJSON(dest)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonFieldName(fe)] = describe(fe)
		}
		return apperrors.Validation(ValidationFailed, fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.Validation(ValidationFailed, map[string]string{
			typeErr.Field: "must be a " + typeErr.Type.String(),
		})
	}

	if errors.Is(err, io.EOF) {
		return apperrors.Validation("Request body is required", nil)
	}

	return apperrors.Validation("Invalid request body", nil)
}

// ParseUUIDParam reads a path parameter as a UUID.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, *apperrors.AppError) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid ID format", map[string]string{name: "must be a UUID"})
	}
	return id, nil
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
