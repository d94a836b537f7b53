package waitlist

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/superblogger/waitlist/config/router"
	"github.com/superblogger/waitlist/internal/log"
	apperrors "github.com/superblogger/waitlist/pkg/errors"
)

// Submission outcomes, used as the waitlist_submissions_total label.
const (
	outcomeSuccess       = "success"
	outcomeInvalidInput  = "invalid_input"
	outcomeDuplicate     = "duplicate"
	outcomeUpstreamQuery = "upstream_query_error"
	outcomeUpstreamWrite = "upstream_write_error"
	outcomeUnexpected    = "unexpected"
)

func NewWaitlistController(
	logger *log.Logger,
	service WaitlistService,
) *router.RESTController {

	return router.NewRESTController(
		"WaitlistController",
		"/api/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			submissions := newSubmissionsCounter(rs.Registerer(), logger)

			rs.AddPostHandler(c, "", createWaitlistEntryHandler(service, submissions))
		},
	)
}

func newSubmissionsCounter(reg prometheus.Registerer, logger *log.Logger) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_submissions_total",
			Help: "Waitlist submissions by outcome.",
		},
		[]string{"outcome"},
	)

	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		logger.Warn("Waitlist submissions metric not registered", "error", err)
	}

	return counter
}

func createWaitlistEntryHandler(service WaitlistService, submissions *prometheus.CounterVec) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateWaitlistEntryRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to decode waitlist submission",
				"error", err,
				"fields", apperrors.FormatValidationErrors(err, &req),
			)
			submissions.WithLabelValues(outcomeUnexpected).Inc()
			return router.InternalServerErrorResult(apperrors.MessageUnexpected)
		}

		if _, err := service.Submit(ctx.Request.Context(), &req); err != nil {
			submissions.WithLabelValues(outcomeFor(err)).Inc()
			return router.AppErrorResult(err)
		}

		submissions.WithLabelValues(outcomeSuccess).Inc()
		return router.OKResult(nil, "")
	}
}

func outcomeFor(err error) string {
	switch apperrors.GetErrorType(err) {
	case apperrors.ErrorTypeInvalidRequest:
		return outcomeInvalidInput
	case apperrors.ErrorTypeDuplicateEntry:
		return outcomeDuplicate
	case apperrors.ErrorTypeUpstreamQuery:
		return outcomeUpstreamQuery
	case apperrors.ErrorTypeUpstreamWrite:
		return outcomeUpstreamWrite
	default:
		return outcomeUnexpected
	}
}
