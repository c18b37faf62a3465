package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fx_backend/internal/apperrors"
	"github.com/SscSPs/fx_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithError maps err onto an HTTP status and writes an ErrorResponse.
// Server-side failures are logged and answered with fallbackMsg so internals never reach the client.
func respondWithError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)

	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	switch {
	case status == http.StatusServiceUnavailable:
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
		msg = "Exchange rates are temporarily unavailable"
	case status >= http.StatusInternalServerError:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		msg = fallbackMsg
	case errors.Is(err, apperrors.ErrNotFound):
		msg = "Resource not found"
	}

	c.JSON(status, ErrorResponse{Error: msg})
}
