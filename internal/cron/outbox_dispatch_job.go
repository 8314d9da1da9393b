package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/logger"
)

const (
	defaultDispatchBatch       = 50
	defaultDispatchMaxAttempts = 10
	publishTimeout             = 5 * time.Second
)

type OutboxDispatchJobParams struct {
	Logger      *logger.Logger
	Repository  outboxDispatchRepo
	Publisher   eventPublisher
	BatchSize   int
	MaxAttempts int
}

type outboxDispatchRepo interface {
	FetchUnpublished(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, err error) error
}

type eventPublisher interface {
	Publish(ctx context.Context, channel string, payload any) (int64, error)
	EventChannel(eventType string) string
}

// NewOutboxDispatchJob publishes pending outbox rows to Redis Pub/Sub, one
// channel per event type.
func NewOutboxDispatchJob(params OutboxDispatchJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultDispatchBatch
	}
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultDispatchMaxAttempts
	}
	return &outboxDispatchJob{
		logg:        params.Logger,
		repo:        params.Repository,
		publisher:   params.Publisher,
		batch:       batch,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}, nil
}

type outboxDispatchJob struct {
	logg        *logger.Logger
	repo        outboxDispatchRepo
	publisher   eventPublisher
	batch       int
	maxAttempts int
	now         func() time.Time
}

func (j *outboxDispatchJob) Name() string { return "outbox-dispatch" }

// Run drains one batch. Publish failures are recorded on the row and retried
// on a later run until the attempt budget is spent.
func (j *outboxDispatchJob) Run(ctx context.Context) error {
	events, err := j.repo.FetchUnpublished(ctx, j.batch, j.maxAttempts)
	if err != nil {
		return fmt.Errorf("fetch unpublished: %w", err)
	}

	var errs error
	published := 0
	for _, event := range events {
		channel := j.publisher.EventChannel(string(event.EventType))
		eventCtx := j.logg.WithFields(ctx, map[string]any{
			"outbox_id":     event.ID.String(),
			"event_type":    string(event.EventType),
			"aggregate_id":  event.AggregateID.String(),
			"attempt_count": event.AttemptCount,
			"channel":       channel,
		})

		publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		_, pubErr := j.publisher.Publish(publishCtx, channel, string(event.Payload))
		cancel()
		if pubErr != nil {
			j.logg.Warn(j.logg.WithField(eventCtx, "error", pubErr.Error()), "outbox publish failed")
			if markErr := j.repo.MarkFailed(ctx, event.ID, pubErr); markErr != nil {
				errs = multierr.Append(errs, fmt.Errorf("mark failed %s: %w", event.ID, markErr))
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("publish %s: %w", event.ID, pubErr))
			continue
		}
		if markErr := j.repo.MarkPublished(ctx, event.ID, j.now().UTC()); markErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("mark published %s: %w", event.ID, markErr))
			continue
		}
		published++
	}

	if len(events) > 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"fetched":   len(events),
			"published": published,
		})
		j.logg.Info(logCtx, "outbox dispatch complete")
	}
	return errs
}
