package errors

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StatusOK                  = 200
	StatusNoContent           = 204
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusRequestTimeout      = 408
	StatusInternalServerError = 500
)

const (
	ErrorTypeInvalidRequest      = "INVALID_REQUEST"
	ErrorTypeDuplicateEntry      = "DUPLICATE_ENTRY"
	ErrorTypeUpstreamQuery       = "UPSTREAM_QUERY_ERROR"
	ErrorTypeUpstreamWrite       = "UPSTREAM_WRITE_ERROR"
	ErrorTypeNotFound            = "NOT_FOUND"
	ErrorTypeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorTypeUnknown             = "UNKNOWN_ERROR"
)

// Public messages. These are the only error strings a client ever sees.
const (
	MessageFieldsRequired = "Name and email are required."
	MessageInvalidEmail   = "Please provide a valid email address."
	MessageAlreadyListed  = "You are already on the waitlist!"
	MessageSaveFailed     = "Failed to save to waitlist. Please try again."
	MessageUnexpected     = "Something went wrong. Please try again."
)

type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

func NewInvalidRequestError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidRequest, message, err)
}

func NewDuplicateEntryError(err error) *AppError {
	return NewAppError(ErrorTypeDuplicateEntry, MessageAlreadyListed, err)
}

// NewUpstreamQueryError wraps a failed lookup against the record store. Callers decide
// whether it blocks the request.
func NewUpstreamQueryError(err error) *AppError {
	return NewAppError(ErrorTypeUpstreamQuery, MessageUnexpected, err)
}

func NewUpstreamWriteError(err error) *AppError {
	return NewAppError(ErrorTypeUpstreamWrite, MessageSaveFailed, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, err)
}

func NewUnexpectedError(err error) *AppError {
	return NewAppError(ErrorTypeInternalServerError, MessageUnexpected, err)
}

func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return ErrorTypeUnknown
}

func IsType(err error, errType string) bool {
	return err != nil && GetErrorType(err) == errType
}

// IsDuplicateKeyError recognises unique-constraint violations from drivers that do not
// translate them into gorm.ErrDuplicatedKey.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if IsType(err, ErrorTypeDuplicateEntry) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint")
}
