package types

import (
	"errors"
	"net/http"

	appErr "github.com/sitepilot/engine/pkg/errors"
)

var statusByCode = map[appErr.Code]int{
	appErr.CodeInvalid:       http.StatusBadRequest,
	appErr.CodeUnauthorized:  http.StatusUnauthorized,
	appErr.CodeForbidden:     http.StatusForbidden,
	appErr.CodeNotFound:      http.StatusNotFound,
	appErr.CodeConflict:      http.StatusConflict,
	appErr.CodeAlreadyExists: http.StatusConflict,
	appErr.CodeGeneration:    http.StatusBadGateway,
	appErr.CodeUnavailable:   http.StatusServiceUnavailable,
	appErr.CodeDeadline:      http.StatusGatewayTimeout,
}

// StatusFromError maps an error's code onto an HTTP status. Unknown codes are 500.
func StatusFromError(err error) int {
	if s, ok := statusByCode[appErr.CodeOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// FromAppError converts err into the response error body. Internal failures
// are reported without their cause.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var e *appErr.AppError
	if !errors.As(err, &e) {
		return &APIError{Code: string(appErr.CodeInternal), Message: "internal error"}
	}
	if StatusFromError(err) == http.StatusInternalServerError {
		return &APIError{Code: string(e.Code), Message: "internal error"}
	}
	return &APIError{Code: string(e.Code), Message: e.Message, Details: e.Meta}
}
