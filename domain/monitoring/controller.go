package monitoring

import (
	"context"
	"time"

	"github.com/superblogger/waitlist/config/router"
	"github.com/superblogger/waitlist/internal/log"
)

const healthCheckTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Store  int `json:"store"`  // 1 = healthy, 0 = unhealthy
	Cache  int `json:"cache"`  // 1 = healthy, 0 = unhealthy/not configured
	Uptime int `json:"uptime"` // uptime in seconds
}

type MonitoringController struct {
	store     Pinger
	cache     Pinger
	startTime time.Time
}

func NewMonitoringController(store Pinger, cache Pinger) *router.RESTController {
	ctrl := &MonitoringController{
		store:     store,
		cache:     cache,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			routerService.AddGetHandler(controller, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Debug("Health check endpoint called")

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	return router.OKResult(ctrl.performHealthChecks(ctx, logger), "superblogger waitlist health check completed")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	return HealthStatus{
		Store:  checkConnectivity(ctx, "Store", ctrl.store, logger),
		Cache:  checkConnectivity(ctx, "Cache", ctrl.cache, logger),
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}
}

func checkConnectivity(ctx context.Context, name string, target Pinger, logger *log.Logger) int {
	if target == nil {
		logger.Info(name + " not configured, health check skipped")
		return 0
	}

	if err := target.Ping(ctx); err != nil {
		logger.Error(name+" health check failed", "error", err)
		return 0
	}

	return 1
}
