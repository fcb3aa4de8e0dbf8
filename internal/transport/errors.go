package transport

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/domain"
)

var statusByCode = map[string]int{
	domain.CodeUserExists:             http.StatusConflict,
	domain.CodeUserNotFound:           http.StatusNotFound,
	domain.CodeInvalidCredentials:     http.StatusBadRequest,
	domain.CodeInvalidToken:           http.StatusUnauthorized,
	domain.CodeNotAuthenticated:       http.StatusUnauthorized,
	domain.CodeAccessTokenRequired:    http.StatusUnauthorized,
	domain.CodeRefreshTokenRequired:   http.StatusUnauthorized,
	domain.CodeInsufficientPermission: http.StatusForbidden,
	domain.CodeAccountNotVerified:     http.StatusForbidden,
	domain.CodePasswordMismatch:       http.StatusBadRequest,
	domain.CodeBookNotFound:           http.StatusNotFound,
	domain.CodeReviewNotFound:         http.StatusNotFound,
	domain.CodeReviewForbidden:        http.StatusForbidden,
	domain.CodeTagNotFound:            http.StatusNotFound,
	domain.CodeTagExists:              http.StatusConflict,
	domain.CodeValidation:             http.StatusBadRequest,
	domain.CodeUnavailable:            http.StatusServiceUnavailable,
	domain.CodeInternal:               http.StatusInternalServerError,
}

type ErrorResponse struct {
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code"`
	Resolution string `json:"resolution,omitempty"`
}

// Describe turns any error into a status and the JSON body to send.
// Errors that are neither domain nor echo errors become a generic 500.
func Describe(err error) (int, ErrorResponse) {
	var de *domain.Error
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return status, ErrorResponse{Message: de.Message, ErrorCode: de.Code, Resolution: de.Resolution}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return he.Code, ErrorResponse{Message: msg, ErrorCode: codeForStatus(he.Code)}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Message:   domain.ErrInternal.Message,
		ErrorCode: domain.CodeInternal,
	}
}

// HTTPStatus is the status Describe would pick.
func HTTPStatus(err error) int {
	status, _ := Describe(err)
	return status
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		return domain.CodeValidation
	case http.StatusUnauthorized:
		return domain.CodeNotAuthenticated
	case http.StatusForbidden:
		return domain.CodeInsufficientPermission
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusServiceUnavailable:
		return domain.CodeUnavailable
	}
	if status >= 500 {
		return domain.CodeInternal
	}
	return "http_error"
}
