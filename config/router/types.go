package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is what every handler returns. JSON results render as {"error": ...} for
// 4xx/5xx and {"success": true, ...} otherwise. Results carrying a ContentType are written
// verbatim from Body.
type ServiceResult struct {
	StatusCode int
	Data       any
	Message    string

	ContentType string
	Body        []byte
	Headers     map[string]string
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	if result.IsError() {
		return gin.H{"error": result.Message}
	}

	body := gin.H{"success": true}
	if result.Data != nil {
		body["data"] = result.Data
	}
	if result.Message != "" {
		body["message"] = result.Message
	}

	return body
}

func (result *ServiceResult) IsBinary() bool {
	return result.ContentType != ""
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}
