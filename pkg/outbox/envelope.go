package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	"github.com/google/uuid"
)

// ActorRef identifies who produced the event.
type ActorRef struct {
	UserID uuid.UUID           `json:"userId"`
	Kind   enums.PrincipalKind `json:"kind,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// DecodeEnvelope unpacks the envelope and, when dst is non-nil, its data.
func DecodeEnvelope(event models.OutboxEvent, dst any) (PayloadEnvelope, error) {
	var envelope PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return PayloadEnvelope{}, fmt.Errorf("decode envelope %s: %w", event.ID, err)
	}
	if dst == nil {
		return envelope, nil
	}
	if len(envelope.Data) == 0 {
		return envelope, fmt.Errorf("event %s has empty data", event.ID)
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		return envelope, fmt.Errorf("decode %s data: %w", event.EventType, err)
	}
	return envelope, nil
}
