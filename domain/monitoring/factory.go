package monitoring

import (
	"github.com/superblogger/waitlist/config/router"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	store Pinger
	cache Pinger
}

func NewMonitoringControllerFactory(store Pinger, cache Pinger) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		store: store,
		cache: cache,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.store, f.cache)
}
