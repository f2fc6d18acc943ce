package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeState      ErrorType = "STATE_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequiredField       ErrorCode = "REQUIRED_FIELD"
	ErrCodeDuplicateEmail      ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeWeakPassword        ErrorCode = "WEAK_PASSWORD"
	ErrCodeUnknownEmail        ErrorCode = "UNKNOWN_EMAIL"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUnknownAccount      ErrorCode = "UNKNOWN_ACCOUNT"
	ErrCodeMissingDepartment   ErrorCode = "MISSING_DEPARTMENT"
	ErrCodeNoItems             ErrorCode = "NO_ITEMS"
	ErrCodeSelfDeleteForbidden ErrorCode = "SELF_DELETE_FORBIDDEN"
	ErrCodeCannotModifyRequest ErrorCode = "CANNOT_MODIFY_REQUEST"
	ErrCodeInvalidRole         ErrorCode = "INVALID_ROLE"

	ErrCodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"
	ErrCodeAdminRequired    ErrorCode = "ADMIN_REQUIRED"

	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on code so that copies carrying a cause or details still
// compare equal to the package sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy; sentinels are shared and must not be mutated.
func (e *AppError) WithCause(cause error) *AppError {
	c := *e
	c.Cause = cause
	return &c
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	c := *e
	c.Details = details
	return &c
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewStateError(message string, code ErrorCode, status int) *AppError {
	return &AppError{
		Type:       ErrorTypeState,
		Code:       code,
		Message:    message,
		StatusCode: status,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodePersistenceFailed,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrDuplicateEmail      = NewConflictError("Email already exists.", ErrCodeDuplicateEmail)
	ErrWeakPassword        = NewValidationError("Password must be at least 6 characters.", ErrCodeWeakPassword)
	ErrUnknownEmail        = NewValidationError("No account found for this email.", ErrCodeUnknownEmail)
	ErrInvalidCredentials  = NewValidationError("Invalid credentials or email not verified.", ErrCodeInvalidCredentials)
	ErrUnknownAccount      = NewValidationError("No account exists with this email.", ErrCodeUnknownAccount)
	ErrMissingDepartment   = NewValidationError("Please select a department.", ErrCodeMissingDepartment)
	ErrNoItems             = NewValidationError("Add at least one item.", ErrCodeNoItems)
	ErrSelfDeleteForbidden = NewValidationError("You cannot delete your own account.", ErrCodeSelfDeleteForbidden)
	ErrCannotModifyRequest = NewValidationError("Request can no longer be modified.", ErrCodeCannotModifyRequest)
	ErrInvalidRole         = NewValidationError("Role must be user or admin.", ErrCodeInvalidRole)

	ErrNotAuthenticated = NewStateError("You must be logged in.", ErrCodeNotAuthenticated, http.StatusUnauthorized)
	ErrAdminRequired    = NewStateError("Admin access required.", ErrCodeAdminRequired, http.StatusForbidden)

	ErrRecordNotFound = NewNotFoundError("Record not found.", ErrCodeNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
