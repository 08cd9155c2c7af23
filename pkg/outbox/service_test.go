package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox/payloads"
)

type captureInserter struct {
	rows []models.OutboxEvent
	err  error
}

func (c *captureInserter) Insert(tx *gorm.DB, event models.OutboxEvent) error {
	if c.err != nil {
		return c.err
	}
	c.rows = append(c.rows, event)
	return nil
}

func TestEmitWrapsDataInEnvelope(t *testing.T) {
	repo := &captureInserter{}
	svc := &Service{repo: repo}
	offerID := uuid.New()

	err := svc.Emit(context.Background(), &gorm.DB{}, DomainEvent{
		EventType:     enums.EventOfferSubmitted,
		AggregateType: enums.AggregateOffer,
		AggregateID:   offerID,
		Data:          payloads.OfferSubmittedEvent{OfferID: offerID, Title: "Stroller", VendorEmail: "v@example.com"},
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(repo.rows))
	}

	var data payloads.OfferSubmittedEvent
	envelope, err := DecodeEnvelope(repo.rows[0], &data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Version != 1 || envelope.EventID == "" || envelope.OccurredAt.IsZero() {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	if data.Title != "Stroller" || data.OfferID != offerID {
		t.Fatalf("unexpected data %+v", data)
	}
}

func TestEmitRequiresTransactionAndValidTypes(t *testing.T) {
	svc := &Service{repo: &captureInserter{}}
	if err := svc.Emit(context.Background(), nil, DomainEvent{}); err == nil {
		t.Fatal("expected transaction error")
	}
	err := svc.Emit(context.Background(), &gorm.DB{}, DomainEvent{EventType: "bogus", AggregateType: enums.AggregateAd})
	if err == nil {
		t.Fatal("expected invalid event type error")
	}
}

func TestEmitPropagatesInsertError(t *testing.T) {
	boom := errors.New("insert failed")
	svc := &Service{repo: &captureInserter{err: boom}}
	err := svc.Emit(context.Background(), &gorm.DB{}, DomainEvent{
		EventType:     enums.EventAdPaid,
		AggregateType: enums.AggregateAd,
		AggregateID:   uuid.New(),
		Data:          payloads.AdPaidEvent{},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected insert error, got %v", err)
	}
}

func TestTruncateError(t *testing.T) {
	long := make([]byte, maxErrorLen+50)
	for i := range long {
		long[i] = 'x'
	}
	if got := truncateError(errors.New(string(long))); len(got) != maxErrorLen {
		t.Fatalf("expected truncation to %d, got %d", maxErrorLen, len(got))
	}
	if truncateError(nil) != "" {
		t.Fatal("nil error should truncate to empty string")
	}
}
