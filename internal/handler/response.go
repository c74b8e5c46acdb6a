package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/darass-team/darass-backend/internal/domain"
)

// ErrorResponse is the error body returned to clients: a human-readable
// message plus a stable machine-readable code.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPErrorHandler is the global error handler for echo.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := mapError(err)
	if jsonErr := c.JSON(status, body); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

func mapError(err error) (int, ErrorResponse) {
	// echo's own HTTP errors (404, 405, malformed bodies from Bind, ...)
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		code := strings.ToLower(strings.ReplaceAll(http.StatusText(echoErr.Code), " ", "_"))
		return echoErr.Code, ErrorResponse{Message: msg, Code: code}
	}

	var coded *domain.CodedError
	if errors.As(err, &coded) {
		return codedStatus(coded), ErrorResponse{Message: coded.Message, Code: coded.Code}
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, ErrorResponse{
			Message: validationErr.Error(),
			Code:    "invalid_request",
		}
	}

	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound, ErrorResponse{
			Message: "The requested resource was not found",
			Code:    "not_found",
		}
	}

	slog.Error("unhandled error", "error", err)
	return http.StatusInternalServerError, ErrorResponse{
		Message: "An unexpected error occurred",
		Code:    "internal_error",
	}
}

// Every auth error is an authorization decision; only the two policy
// rejections and the upload failure fall outside 401.
func codedStatus(err *domain.CodedError) int {
	switch err {
	case domain.ErrAccessTokenStillValid, domain.ErrNotGuestUser:
		return http.StatusBadRequest
	case domain.ErrProfileImageUpload:
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}
