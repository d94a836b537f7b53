package og

import (
	"github.com/superblogger/waitlist/config/router"
	apperrors "github.com/superblogger/waitlist/pkg/errors"
)

func NewOGController(service OGService) *router.RESTController {
	return router.NewRESTController(
		"OGController",
		"/api/og",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, "", previewImageHandler(service))
		},
	)
}

func previewImageHandler(service OGService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		image, err := service.Image(ctx.Request.Context())
		if err != nil {
			router.GetLogger(ctx).Error("Preview image unavailable", "error", err)
			return router.InternalServerErrorResult(apperrors.MessageUnexpected)
		}

		return router.BinaryResult("image/png", image, map[string]string{
			"Cache-Control": CacheControl,
		})
	}
}
