package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "barangayserver/server/errors"
	"barangayserver/server/middleware"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// SendJSONResponse sends a JSON response through the gin context.
func SendJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendJSONError sends a JSON error through the gin context and logs it.
func SendJSONError(c *gin.Context, statusCode int, message string) {
	slog.Error("request failed",
		"error", message,
		"status_code", statusCode,
		"request_id", middleware.GetRequestIDFromGin(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	c.JSON(statusCode, ErrorResponse{Error: true, Message: message})
}

// SendAppError maps an error to its HTTP status. AppError carries its own
// status and user message; anything else becomes a generic 500. The full
// error chain goes to the log either way.
func SendAppError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		slog.Error("request failed",
			"error", appErr.Error(),
			"status_code", appErr.StatusCode(),
			"request_id", middleware.GetRequestIDFromGin(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.JSON(appErr.StatusCode(), ErrorResponse{Error: true, Message: appErr.UserMessage()})
		return
	}

	slog.Error("request failed",
		"error", err.Error(),
		"request_id", middleware.GetRequestIDFromGin(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	c.JSON(500, ErrorResponse{Error: true, Message: "internal server error"})
}
