package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailDelivery records a transactional email handed to the provider.
type EmailDelivery struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OutboxEventID uuid.UUID `gorm:"column:outbox_event_id;type:uuid;not null;uniqueIndex:email_deliveries_event_key"`
	Template      string    `gorm:"column:template;not null"`
	Recipient     string    `gorm:"column:recipient;not null"`
	Subject       string    `gorm:"column:subject;not null"`
	ProviderID    *string   `gorm:"column:provider_id"`
	StatusCode    int       `gorm:"column:status_code;not null"`
	SentAt        time.Time `gorm:"column:sent_at;not null"`
}
