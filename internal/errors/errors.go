package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Atig-Hamza/RecoleCheck/internal/auth"
	"github.com/Atig-Hamza/RecoleCheck/internal/middleware"
	"github.com/Atig-Hamza/RecoleCheck/internal/services"
	"github.com/Atig-Hamza/RecoleCheck/internal/validation"
)

// Error code constants for standardized error responses
const (
	ErrNotFound       = "NOT_FOUND"
	ErrBadRequest     = "BAD_REQUEST"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
	ErrValidation     = "VALIDATION_ERROR"
	ErrUnauthorized   = "UNAUTHORIZED"
	ErrConflict       = "CONFLICT"
)

// User-facing messages.
const (
	MessageGeneric            = "Something went wrong."
	MessageInvalidCredentials = "Invalid email or password."
	MessageEmailInUse         = "This email is already associated with an account."
	MessageSessionExpired     = "Your session has expired. Please sign in again."
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

func warn(c *gin.Context, msg string, fields map[string]interface{}) {
	if log := middleware.GetLogger(c); log != nil {
		fields["path"] = c.Request.URL.Path
		log.Warn(msg, fields)
	}
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	warn(c, "Resource not found", map[string]interface{}{"message": message})
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	fields := map[string]interface{}{"message": message}
	if details != nil {
		fields["details"] = details
	}
	warn(c, "Bad request", fields)
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// Unauthorized returns a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	warn(c, "Unauthorized", map[string]interface{}{"message": message})
	respond(c, http.StatusUnauthorized, ErrUnauthorized, message, nil)
}

// Conflict returns a 409 Conflict error response.
func Conflict(c *gin.Context, message string) {
	warn(c, "Conflict", map[string]interface{}{"message": message})
	respond(c, http.StatusConflict, ErrConflict, message, nil)
}

// InternalServerError returns a 500 Internal Server Error response.
// The error is logged; the client only sees message.
func InternalServerError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message": message,
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	}
	respond(c, http.StatusInternalServerError, ErrInternalServer, message, nil)
}

// ValidationError returns a 400 response listing the binding errors of a request body.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{})
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}

	warn(c, "Validation error", map[string]interface{}{"fields": details})
	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// FieldError returns a 400 response for a form field rejected by the parsing rules.
func FieldError(c *gin.Context, err *validation.ValidationError) {
	details := map[string]interface{}{err.Field: formatFieldError(err)}

	warn(c, "Validation error", map[string]interface{}{"fields": details})
	respond(c, http.StatusBadRequest, ErrValidation, "Invalid value for field "+err.Field, details)
}

// BindError reports a request body that could not be bound.
func BindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		ValidationError(c, validationErrors)
		return
	}
	BadRequest(c, "Invalid request body", nil)
}

// Handle maps an error returned by a service to its HTTP response.
// Unrecognized errors, storage failures included, become a generic 500.
func Handle(c *gin.Context, err error) {
	var fieldErr *validation.ValidationError

	switch {
	case stderrors.As(err, &fieldErr):
		FieldError(c, fieldErr)
	case stderrors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(c, MessageInvalidCredentials)
	case stderrors.Is(err, auth.ErrInvalidToken):
		Unauthorized(c, MessageSessionExpired)
	case stderrors.Is(err, auth.ErrEmailInUse):
		Conflict(c, MessageEmailInUse)
	case stderrors.Is(err, services.ErrProfileNotFound):
		NotFound(c, "Profile not found")
	case stderrors.Is(err, services.ErrParcelNotFound):
		NotFound(c, "Parcel not found")
	case stderrors.Is(err, services.ErrZoneNotFound):
		NotFound(c, "Zone not found")
	case stderrors.Is(err, services.ErrHarvestNotFound):
		NotFound(c, "Harvest not found")
	default:
		InternalServerError(c, MessageGeneric, err)
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "len":
		return "Must have length of " + err.Param()
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "uuid":
		return "Must be a valid UUID"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}

// formatFieldError converts a parsing rule failure to a human-readable message.
func formatFieldError(err *validation.ValidationError) string {
	switch {
	case stderrors.Is(err, validation.ErrRequired):
		return "This field is required"
	case stderrors.Is(err, validation.ErrInvalidNumber):
		return "Must be a number greater than zero"
	case stderrors.Is(err, validation.ErrInvalidDate):
		return "Must be a valid date (DD/MM/YYYY)"
	case stderrors.Is(err, auth.ErrWeakPassword):
		return "Password is too short"
	case stderrors.Is(err, auth.ErrInvalidEmail):
		return "Must be a valid email address"
	default:
		return err.Err.Error()
	}
}
