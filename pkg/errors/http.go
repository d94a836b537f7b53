package errors

import (
	"errors"
)

func HTTPStatusCode(err error) int {
	if err == nil {
		return StatusInternalServerError
	}

	switch GetErrorType(err) {
	case ErrorTypeInvalidRequest, ErrorTypeDuplicateEntry:
		return StatusBadRequest
	case ErrorTypeNotFound:
		return StatusNotFound
	case ErrorTypeUpstreamQuery, ErrorTypeUpstreamWrite, ErrorTypeInternalServerError:
		return StatusInternalServerError
	default:
		return StatusInternalServerError
	}
}

func GetHumanReadableMessage(err error) string {
	if err == nil {
		return MessageUnexpected
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	// SECURITY: avoid leaking internal error strings (store payloads, driver errors, etc.)
	return MessageUnexpected
}
