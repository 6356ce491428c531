package response

import (
	"errors"
	"log/slog"
	"net/http"

	"hackathon-api/services"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal server error"

// Error sends a standardized error response
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// Success sends a standardized success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// ValidationError sends a response for validation errors
func ValidationError(c *gin.Context, errors map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errors})
}

// StatusOf maps an engine error to its HTTP status
func StatusOf(err error) int {
	if errors.Is(err, services.ErrNoSubmission) {
		return http.StatusUnprocessableEntity
	}
	switch services.KindOf(err) {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindConflict:
		return http.StatusConflict
	case services.KindInvalidState, services.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// FromError sends the response for an engine error. Internal failures are logged and answered generically.
func FromError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.Any("error", err),
		)
		Error(c, status, internalErrorMessage)
		return
	}

	message := http.StatusText(status)
	var e *services.Error
	if errors.As(err, &e) && e.Message != "" {
		message = e.Message
	}
	Error(c, status, message)
}
