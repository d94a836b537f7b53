package waitlist

import (
	"context"
	"time"

	"github.com/superblogger/waitlist/internal/log"
	"github.com/superblogger/waitlist/internal/models"
	apperrors "github.com/superblogger/waitlist/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/superblogger/waitlist/domain/waitlist"

type WaitlistService interface {
	// Submit validates the request, rejects known emails and stores a new entry.
	Submit(ctx context.Context, req *CreateWaitlistEntryRequest) (*models.WaitlistEntry, error)

	// Ping reports whether the record store is reachable.
	Ping(ctx context.Context) error
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	validator  *Validator
	policy     QueryErrorPolicy
	now        func() time.Time
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, policy QueryErrorPolicy) WaitlistService {
	if policy == "" {
		policy = QueryErrorProceed
	}

	return &waitlistService{
		logger:     logger,
		repository: repository,
		validator:  NewValidator(),
		policy:     policy,
		now:        time.Now,
	}
}

func (s *waitlistService) Submit(ctx context.Context, req *CreateWaitlistEntryRequest) (*models.WaitlistEntry, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "waitlist.Submit")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	valid, err := s.validator.Validate(req)
	if err != nil {
		logger.Warn("Rejected waitlist submission",
			"reason", apperrors.GetHumanReadableMessage(err),
			"fields", apperrors.FormatValidationErrors(err, valid),
		)
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}

	exists, err := s.repository.ExistsByEmail(ctx, valid.Email)
	switch {
	case err != nil && s.policy == QueryErrorAbort:
		logger.Error("Duplicate check failed; aborting submission", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate check failed")
		return nil, err
	case err != nil:
		logger.Warn("Duplicate check failed; proceeding without it", "error", err)
		span.AddEvent("duplicate check skipped")
	case exists:
		logger.Info("Waitlist submission for an already listed email")
		span.SetAttributes(attribute.Bool("waitlist.duplicate", true))
		return nil, apperrors.NewDuplicateEntryError(nil)
	}

	entry := ToWaitlistEntryModel(valid, s.now().UTC())

	if err := s.repository.CreateEntry(ctx, entry); err != nil {
		logger.Error("Failed to create waitlist entry", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "create entry failed")
		return nil, err
	}

	logger.Info("Waitlist entry created", "id", entry.ID)
	return entry, nil
}

func (s *waitlistService) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}
