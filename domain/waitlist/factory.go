package waitlist

import (
	"fmt"

	"github.com/superblogger/waitlist/config"
)

type WaitlistServiceFactory interface {
	CreateRepository() (WaitlistRepository, error)
	CreateService() (WaitlistService, error)
}

type DefaultWaitlistServiceFactory struct {
	appConfig *config.ApplicationConfig
}

func NewWaitlistServiceFactory(appConfig *config.ApplicationConfig) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{appConfig: appConfig}
}

// CreateRepository picks the record store named by WAITLIST_STORE.
func (f *DefaultWaitlistServiceFactory) CreateRepository() (WaitlistRepository, error) {
	settings := f.appConfig.Settings

	switch settings.Store {
	case config.StoreNotion:
		if f.appConfig.NotionClient == nil {
			return nil, fmt.Errorf("notion store selected but no Notion client is configured")
		}
		return NewNotionWaitlistRepository(f.appConfig.NotionClient, settings.Notion.DatabaseID, f.appConfig.Logger), nil
	case config.StorePostgres, config.StoreSQLite:
		if f.appConfig.DB == nil {
			return nil, fmt.Errorf("%s store selected but no database is configured", settings.Store)
		}
		return NewWaitlistRepository(f.appConfig.DB), nil
	default:
		return nil, fmt.Errorf("unsupported waitlist store %q", settings.Store)
	}
}

func (f *DefaultWaitlistServiceFactory) CreateService() (WaitlistService, error) {
	repository, err := f.CreateRepository()
	if err != nil {
		return nil, err
	}

	policy, err := ParseQueryErrorPolicy(f.appConfig.Settings.OnQueryError)
	if err != nil {
		return nil, err
	}

	return NewWaitlistService(f.appConfig.Logger, repository, policy), nil
}
