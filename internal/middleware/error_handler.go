package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"adFatigue/business/fatigue"
	"adFatigue/business/snapshot"
	"adFatigue/domain"
	"adFatigue/pkg/logger"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Message string `json:"message"`
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, fatigue.ErrInvalidFormat),
		errors.Is(err, fatigue.ErrMissingBaseScore),
		errors.Is(err, fatigue.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fatigue.ErrInvalidConfig),
		errors.Is(err, fatigue.ErrInvalidQuery),
		errors.Is(err, snapshot.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler is the echo HTTPErrorHandler. Handlers return service errors as is
// and this writes the status and message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := StatusFor(err)
	msg := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"trace_id", fatigue.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorResponse{Message: msg})
	}
	if writeErr != nil {
		logger.Error("failed to write error response", writeErr)
	}
}
