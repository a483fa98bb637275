package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validator "github.com/go-playground/validator/v10"
	authdomain "github.com/storekeeplabs/storekeep/internal/auth/domain"
	productdomain "github.com/storekeeplabs/storekeep/internal/product/domain"
	scheduledomain "github.com/storekeeplabs/storekeep/internal/schedule/domain"
	taskdomain "github.com/storekeeplabs/storekeep/internal/task/domain"
	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
	"go.uber.org/zap"
)

// apiError is a transport-level error with an HTTP status and an optional
// field-level error map for validation failures.
type apiError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *apiError) Error() string { return e.Message }

var (
	ErrUnauthorized   = &apiError{Status: http.StatusUnauthorized, Message: "Unauthenticated"}
	ErrForbidden      = &apiError{Status: http.StatusForbidden, Message: "Forbidden. Admin access required."}
	ErrInvalidRequest = &apiError{Status: http.StatusUnprocessableEntity, Message: "Validation failed"}
	ErrInternal       = &apiError{Status: http.StatusInternalServerError, Message: "An error occurred"}
)

func newValidationError(field, message string) *apiError {
	return &apiError{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Fields:  map[string]string{field: message},
	}
}

func notFoundError(message string) *apiError {
	return &apiError{Status: http.StatusNotFound, Message: message}
}

func forbiddenError(message string) *apiError {
	return &apiError{Status: http.StatusForbidden, Message: message}
}

// bindError converts gin binding failures into a 422 with per-field messages.
func bindError(err error) *apiError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
		return &apiError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Validation failed",
			Fields:  fields,
		}
	}
	return &apiError{Status: http.StatusUnprocessableEntity, Message: "Validation failed"}
}

func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return "The " + field + " field is required."
	case "email":
		return "The " + field + " field must be a valid email address."
	case "min":
		return "The " + field + " field must be at least " + fe.Param() + "."
	case "max":
		return "The " + field + " field may not be greater than " + fe.Param() + "."
	case "oneof":
		return "The " + field + " field must be one of: " + fe.Param() + "."
	case "eqfield":
		return "The " + field + " field confirmation does not match."
	default:
		return "The " + field + " field is invalid."
	}
}

// toAPIError maps domain errors onto the transport taxonomy. Anything
// unmapped is internal; its message is withheld outside debug mode.
func (s *Server) toAPIError(err error) *apiError {
	var api *apiError
	if errors.As(err, &api) {
		return api
	}

	switch {
	case errors.Is(err, productdomain.ErrNotFound):
		return notFoundError("Product not found")
	case errors.Is(err, productdomain.ErrNameTaken):
		return newValidationError("name", "A product with this name already exists.")
	case errors.Is(err, userdomain.ErrNotFound):
		return notFoundError("User not found")
	case errors.Is(err, userdomain.ErrEmailTaken):
		return newValidationError("email", "A user with this email already exists.")
	case errors.Is(err, userdomain.ErrInvalidRole):
		return newValidationError("role", "The role field must be one of: user admin.")
	case errors.Is(err, scheduledomain.ErrNotFound):
		return notFoundError("Schedule not found")
	case errors.Is(err, scheduledomain.ErrForbidden):
		return forbiddenError("Forbidden")
	case errors.Is(err, scheduledomain.ErrTimeOrder):
		return newValidationError("end_time", "The end_time field must be after start_time.")
	case errors.Is(err, taskdomain.ErrNotFound):
		return notFoundError("Task not found")
	case errors.Is(err, taskdomain.ErrForbidden):
		return forbiddenError("Forbidden")
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return &apiError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	case errors.Is(err, authdomain.ErrUnauthenticated):
		return ErrUnauthorized
	}

	if s.cfg.Server.Debug {
		return &apiError{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	return ErrInternal
}

// AbortWithError logs the failure and writes the enveloped error response.
func (s *Server) AbortWithError(c *gin.Context, err error) {
	api := s.toAPIError(err)
	if api.Status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
	}
	respondError(c, api)
	c.Abort()
}
