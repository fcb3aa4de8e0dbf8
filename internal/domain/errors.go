package domain

// Error is a domain failure with a stable machine-readable code.
// HTTP status is decided by the transport layer from Code.
type Error struct {
	Code       string
	Message    string
	Resolution string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error with the same Code, so errors built with extra
// detail still compare equal to the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

const (
	CodeUserExists             = "user_exists"
	CodeUserNotFound           = "user_not_found"
	CodeInvalidCredentials     = "invalid_credentials"
	CodeInvalidToken           = "invalid_token"
	CodeNotAuthenticated       = "not_authenticated"
	CodeAccessTokenRequired    = "access_token_required"
	CodeRefreshTokenRequired   = "refresh_token_required"
	CodeInsufficientPermission = "insufficient_permission"
	CodeAccountNotVerified     = "account_not_verified"
	CodePasswordMismatch       = "password_mismatch"
	CodeBookNotFound           = "book_not_found"
	CodeReviewNotFound         = "review_not_found"
	CodeReviewForbidden        = "review_forbidden"
	CodeTagNotFound            = "tag_not_found"
	CodeTagExists              = "tag_exists"
	CodeValidation             = "validation_error"
	CodeUnavailable            = "service_unavailable"
	CodeInternal               = "server_error"
)

var (
	ErrUserAlreadyExists = &Error{
		Code:       CodeUserExists,
		Message:    "User with email already exists",
		Resolution: "Log in or use a different email",
	}
	ErrUserNotFound = &Error{
		Code:    CodeUserNotFound,
		Message: "User not found",
	}
	ErrInvalidCredentials = &Error{
		Code:    CodeInvalidCredentials,
		Message: "Invalid email or password",
	}
	ErrInvalidToken = &Error{
		Code:       CodeInvalidToken,
		Message:    "Token is invalid or expired",
		Resolution: "Please get a new token",
	}
	ErrNotAuthenticated = &Error{
		Code:       CodeNotAuthenticated,
		Message:    "Not authenticated",
		Resolution: "Please provide a bearer token",
	}
	ErrAccessTokenRequired = &Error{
		Code:       CodeAccessTokenRequired,
		Message:    "Please provide a valid access token",
		Resolution: "Please get an access token",
	}
	ErrRefreshTokenRequired = &Error{
		Code:       CodeRefreshTokenRequired,
		Message:    "Please provide a valid refresh token",
		Resolution: "Please get a refresh token",
	}
	ErrInsufficientPermission = &Error{
		Code:    CodeInsufficientPermission,
		Message: "You do not have enough permissions to perform this action",
	}
	ErrAccountNotVerified = &Error{
		Code:       CodeAccountNotVerified,
		Message:    "Account not verified",
		Resolution: "Please check your email for verification details",
	}
	ErrPasswordMismatch = &Error{
		Code:    CodePasswordMismatch,
		Message: "Passwords do not match",
	}
	ErrBookNotFound = &Error{
		Code:    CodeBookNotFound,
		Message: "Book not found",
	}
	ErrReviewNotFound = &Error{
		Code:    CodeReviewNotFound,
		Message: "Review not found",
	}
	ErrReviewForbidden = &Error{
		Code:    CodeReviewForbidden,
		Message: "Cannot delete this review",
	}
	ErrTagNotFound = &Error{
		Code:    CodeTagNotFound,
		Message: "Tag not found",
	}
	ErrTagAlreadyExists = &Error{
		Code:    CodeTagExists,
		Message: "Tag already exists",
	}
	ErrValidation = &Error{
		Code:    CodeValidation,
		Message: "Invalid request body",
	}
	ErrBlocklistUnavailable = &Error{
		Code:    CodeUnavailable,
		Message: "Token revocation status is unavailable",
	}
	ErrInternal = &Error{
		Code:    CodeInternal,
		Message: "Oops... Something went wrong",
	}
)
