package waitlist

//go:generate mockgen -source=repository.go -destination=repository_mock_test.go -package=waitlist

import (
	"context"
	"errors"

	"github.com/superblogger/waitlist/internal/models"
	apperrors "github.com/superblogger/waitlist/pkg/errors"
	"gorm.io/gorm"
)

// WaitlistRepository is the record store behind the waitlist. Implementations return
// AppErrors: UpstreamQueryError from ExistsByEmail, and UpstreamWriteError, DuplicateEntry
// or UnexpectedError from CreateEntry.
type WaitlistRepository interface {
	// ExistsByEmail reports whether an entry with exactly this email is already stored.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CreateEntry stores a new entry and fills in its store-assigned ID.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64

	err := wr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewUpstreamQueryError(err)
	}

	return count > 0, nil
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	if entry == nil {
		return apperrors.NewUnexpectedError(errors.New("waitlist entry is nil"))
	}

	if err := wr.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.NewDuplicateEntryError(err)
		}
		return apperrors.NewUpstreamWriteError(err)
	}

	return nil
}

func (wr *waitlistRepository) Ping(ctx context.Context) error {
	sqlDB, err := wr.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
