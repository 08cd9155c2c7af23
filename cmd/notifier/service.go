package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/notifications"
	"github.com/angelmondragon/babydeals-backend/pkg/config"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
	"github.com/angelmondragon/babydeals-backend/pkg/metrics"
)

const (
	defaultBatchSize   = 50
	defaultPollMs      = 1000
	defaultSendTimeout = 15 * time.Second
	defaultMaxAttempts = 10
	maxBackoff         = 30 * time.Second
	jitterWindow       = 250 * time.Millisecond
)

var jitterSource = rand.New(rand.NewSource(time.Now().UnixNano()))

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type outboxRepository interface {
	FetchPending(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error)
	LockPendingTx(tx *gorm.DB, id uuid.UUID, maxAttempts int) (*models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error
}

type deliveryRepository interface {
	ExistsTx(tx *gorm.DB, eventID uuid.UUID) (bool, error)
	InsertTx(tx *gorm.DB, delivery models.EmailDelivery) error
}

type renderer interface {
	Render(event models.OutboxEvent) (*notifications.Email, error)
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         dbClient
	Repository outboxRepository
	Deliveries deliveryRepository
	Renderer   renderer
	Sender     notifications.Sender
	Metrics    *metrics.NotifierMetrics
}

// Service drains outbox events into transactional emails.
type Service struct {
	logg         *logger.Logger
	db           dbClient
	repo         outboxRepository
	deliveries   deliveryRepository
	renderer     renderer
	sender       notifications.Sender
	metrics      *metrics.NotifierMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
	now          func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Deliveries == nil {
		return nil, errors.New("delivery repository is required")
	}
	if params.Renderer == nil {
		return nil, errors.New("email renderer is required")
	}
	if params.Sender == nil {
		return nil, errors.New("email sender is required")
	}

	batch := params.Config.Notifier.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	pollMs := params.Config.Notifier.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}
	maxAttempts := params.Config.Notifier.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		logg:         params.Logger,
		db:           params.DB,
		repo:         params.Repository,
		deliveries:   params.Deliveries,
		renderer:     params.Renderer,
		sender:       params.Sender,
		metrics:      params.Metrics,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.db.Ping(ctx); err != nil {
		s.logg.Error(ctx, "database ping failed", err)
		return fmt.Errorf("database ping failed: %w", err)
	}

	interval := s.pollInterval
	if interval <= 0 {
		interval = time.Duration(defaultPollMs) * time.Millisecond
	}
	backoff := interval

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "notifier context canceled")
			return ctx.Err()
		default:
		}

		processed, err := s.processBatch(ctx)
		if err != nil {
			s.logg.Error(ctx, "notifier batch error", err)
			backoff = nextBackoff(backoff, interval, maxBackoff)
			if err := s.sleep(ctx, withJitter(backoff)); err != nil {
				return err
			}
			continue
		}

		backoff = interval

		if processed {
			continue
		}

		if err := s.sleep(ctx, withJitter(interval)); err != nil {
			return err
		}
	}
}

// processBatch lists pending events and settles each in its own transaction,
// so a bookkeeping failure never rolls back emails already recorded.
func (s *Service) processBatch(ctx context.Context) (bool, error) {
	started := time.Now()
	events, err := s.repo.FetchPending(ctx, s.batchSize, s.maxAttempts)
	if err != nil {
		return false, fmt.Errorf("fetch pending events: %w", err)
	}
	if len(events) == 0 {
		return false, nil
	}
	defer func() { s.metrics.ObserveBatch(time.Since(started)) }()

	for _, candidate := range events {
		err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			event, err := s.repo.LockPendingTx(tx, candidate.ID, s.maxAttempts)
			if err != nil {
				return fmt.Errorf("lock event %s: %w", candidate.ID, err)
			}
			if event == nil {
				return nil
			}
			return s.dispatch(ctx, tx, *event)
		})
		if err != nil {
			return true, err
		}
	}
	return true, nil
}

// dispatch handles one event. Only bookkeeping failures are returned; send
// failures are recorded on the event row.
func (s *Service) dispatch(ctx context.Context, tx *gorm.DB, event models.OutboxEvent) error {
	fields := s.eventFields(event)
	eventType := string(event.EventType)

	delivered, err := s.deliveries.ExistsTx(tx, event.ID)
	if err != nil {
		return fmt.Errorf("check delivery %s: %w", event.ID, err)
	}
	if delivered {
		s.metrics.IncDelivery(eventType, metrics.OutcomeSkipped)
		if markErr := s.repo.MarkPublishedTx(tx, event.ID); markErr != nil {
			return fmt.Errorf("mark published %s: %w", event.ID, markErr)
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "email already delivered")
		return nil
	}

	email, err := s.renderer.Render(event)
	if err != nil {
		return s.park(ctx, tx, event, err, fields)
	}
	fields["template"] = email.Template

	sendCtx, cancel := context.WithTimeout(ctx, defaultSendTimeout)
	result, err := s.sender.Send(sendCtx, email)
	cancel()
	if err != nil {
		if notifications.IsPermanent(err) {
			return s.park(ctx, tx, event, err, fields)
		}

		nextAttempt := event.AttemptCount + 1
		fields["attempt_count"] = nextAttempt
		if nextAttempt >= s.maxAttempts {
			fields["terminal_reason"] = "max_attempts"
			return s.park(ctx, tx, event, fmt.Errorf("max send attempts reached: %w", err), fields)
		}

		ctxWithFields := s.logg.WithFields(ctx, fields)
		ctxWithFields = s.logg.WithField(ctxWithFields, "error", err.Error())
		s.logg.Warn(ctxWithFields, "email send failed")
		s.metrics.IncDelivery(eventType, metrics.OutcomeFailed)
		if markErr := s.repo.MarkFailedTx(tx, event.ID, err); markErr != nil {
			return fmt.Errorf("mark failure %s: %w", event.ID, markErr)
		}
		return nil
	}

	delivery := models.EmailDelivery{
		OutboxEventID: event.ID,
		Template:      email.Template,
		Recipient:     email.To,
		Subject:       email.Subject,
		StatusCode:    result.StatusCode,
		SentAt:        s.now(),
	}
	if result.MessageID != "" {
		id := result.MessageID
		delivery.ProviderID = &id
	}
	if err := s.deliveries.InsertTx(tx, delivery); err != nil {
		return fmt.Errorf("record delivery %s: %w", event.ID, err)
	}
	if markErr := s.repo.MarkPublishedTx(tx, event.ID); markErr != nil {
		return fmt.Errorf("mark published %s: %w", event.ID, markErr)
	}
	s.metrics.IncDelivery(eventType, metrics.OutcomeSent)
	s.logg.Info(s.logg.WithFields(ctx, fields), "email sent")
	return nil
}

func (s *Service) park(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, err error, fields map[string]any) error {
	ctxWithFields := s.logg.WithFields(ctx, fields)
	ctxWithFields = s.logg.WithField(ctxWithFields, "error", err.Error())
	s.logg.Warn(ctxWithFields, "outbox event will not be retried")
	s.metrics.IncDelivery(string(event.EventType), metrics.OutcomeParked)
	if markErr := s.repo.MarkTerminalTx(tx, event.ID, err, s.maxAttempts); markErr != nil {
		return fmt.Errorf("mark terminal %s: %w", event.ID, markErr)
	}
	return nil
}

func (s *Service) eventFields(event models.OutboxEvent) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"batch_size":     s.batchSize,
		"attempt_count":  event.AttemptCount,
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	jitter := time.Duration(jitterSource.Int63n(int64(jitterWindow)))
	return d + jitter
}
