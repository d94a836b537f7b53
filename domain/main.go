package domain

import (
	"github.com/superblogger/waitlist/config"
	"github.com/superblogger/waitlist/domain/monitoring"
	"github.com/superblogger/waitlist/domain/og"
	"github.com/superblogger/waitlist/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) error {
	waitlistService, err := waitlist.NewWaitlistServiceFactory(appConfig).CreateService()
	if err != nil {
		return err
	}

	renderer, err := og.NewDefaultRenderer()
	if err != nil {
		return err
	}

	appConfig.RouterService.MountController(monitoring.NewMonitoringControllerFactory(waitlistService, appConfig.Cache).CreateController())
	appConfig.RouterService.MountController(waitlist.NewWaitlistController(appConfig.Logger, waitlistService))
	appConfig.RouterService.MountController(og.NewOGController(
		og.NewOGService(appConfig.Logger, renderer, appConfig.Cache, appConfig.Settings.Preview.CacheTTL),
	))

	return nil
}
