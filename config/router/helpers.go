package router

import (
	"net/http"

	"github.com/superblogger/waitlist/internal/log"
	apperrors "github.com/superblogger/waitlist/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

func BadRequestResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
	}
}

func ErrorResult(statusCode int, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Message:    message,
	}
}

// AppErrorResult maps err onto its HTTP status and public message. Internal detail never
// reaches the body.
func AppErrorResult(err error) *ServiceResult {
	return ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err))
}

func BinaryResult(contentType string, body []byte, headers map[string]string) *ServiceResult {
	return &ServiceResult{
		StatusCode:  http.StatusOK,
		ContentType: contentType,
		Body:        body,
		Headers:     headers,
	}
}
