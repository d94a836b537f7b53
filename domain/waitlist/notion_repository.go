package waitlist

import (
	"context"
	"errors"

	"github.com/jomei/notionapi"
	"github.com/superblogger/waitlist/internal/log"
	"github.com/superblogger/waitlist/internal/models"
	"github.com/superblogger/waitlist/pkg/constants"
	apperrors "github.com/superblogger/waitlist/pkg/errors"
	"github.com/superblogger/waitlist/pkg/notion"
)

// Column names of the waitlist database in Notion.
const (
	PropertyName     = "Name"
	PropertyEmail    = "Email"
	PropertySignedUp = "Signed Up"
)

type NotionClient interface {
	QueryDatabase(ctx context.Context, databaseID string, query *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	CreatePage(ctx context.Context, page *notionapi.PageCreateRequest) (*notionapi.Page, error)
	RetrieveDatabase(ctx context.Context, databaseID string) (*notionapi.Database, error)
}

type notionWaitlistRepository struct {
	client     NotionClient
	databaseID string
	logger     *log.Logger
}

func NewNotionWaitlistRepository(client NotionClient, databaseID string, logger *log.Logger) WaitlistRepository {
	return &notionWaitlistRepository{
		client:     client,
		databaseID: databaseID,
		logger:     logger,
	}
}

func (r *notionWaitlistRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	resp, err := r.client.QueryDatabase(ctx, r.databaseID, &notionapi.DatabaseQueryRequest{
		Filter:   notion.EmailEqualsFilter(PropertyEmail, email),
		PageSize: 1,
	})
	if err != nil {
		return false, apperrors.NewUpstreamQueryError(err)
	}

	return len(resp.Results) > 0, nil
}

func (r *notionWaitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	if entry == nil {
		return apperrors.NewUnexpectedError(errors.New("waitlist entry is nil"))
	}

	page, err := r.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{DatabaseID: notionapi.DatabaseID(r.databaseID)},
		Properties: notionapi.Properties{
			PropertyName:     notion.TitleProperty(entry.Name),
			PropertyEmail:    notion.EmailProperty(entry.Email),
			PropertySignedUp: notion.DateProperty(entry.SignedUpAt.UTC(), constants.ISO8601MillisFormat),
		},
	})
	if err != nil {
		if apiErr, ok := notion.AsAPIError(err); ok {
			log.GetLoggerInstanceFromContext(ctx, r.logger).Error("Notion API error",
				"status", apiErr.StatusCode,
				"code", apiErr.Code,
				"payload", string(apiErr.Body),
			)
			return apperrors.NewUpstreamWriteError(err)
		}
		return apperrors.NewUnexpectedError(err)
	}

	entry.ID = page.ID.String()
	return nil
}

func (r *notionWaitlistRepository) Ping(ctx context.Context) error {
	_, err := r.client.RetrieveDatabase(ctx, r.databaseID)
	return err
}
