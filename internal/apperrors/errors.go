package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// DuplicateError reports which unique field collided. It unwraps to
// ErrDuplicate so errors.Is checks on the sentinel keep working; handlers use
// errors.As to pick a field-specific message without parsing error text.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already exists"
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}

// ErrInvalidCredentials is returned for any failed credential check. The same
// error covers "user not found", "no password set" and "wrong password" so the
// response never reveals which part failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUnauthorized indicates a request without a valid session or token.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates an authenticated request with insufficient role.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidToken indicates a verification or reset token that does not match any user.
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenExpired indicates a token that matched but is past its expiry.
// Kept distinct from ErrInvalidToken so the client can prompt for a new link.
var ErrTokenExpired = errors.New("token expired")

// ErrNoPassword indicates a password operation on a social-only account.
var ErrNoPassword = errors.New("no password set for this account")

// ErrEmailNotProvided indicates an OAuth profile without an email address.
var ErrEmailNotProvided = errors.New("email not provided by identity provider")

// ErrLinkNotAllowed indicates that automatic account linking by email was
// refused because the existing account's email is not verified.
var ErrLinkNotAllowed = errors.New("account linking requires a verified email")

// AppError carries an HTTP status alongside a client-safe message. Domain code
// raises the sentinel errors above; handlers translate them into AppErrors at
// the boundary.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message}
}

func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: http.StatusGatewayTimeout, Message: message}
}
