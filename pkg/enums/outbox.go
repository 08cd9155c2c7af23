package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOffer OutboxAggregateType = "offer"
	AggregateAd    OutboxAggregateType = "ad"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOffer,
	AggregateAd,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOfferSubmitted OutboxEventType = "offer_submitted"
	EventOfferApproved  OutboxEventType = "offer_approved"
	EventAdPaid         OutboxEventType = "ad_paid"
)

var validEventTypes = []OutboxEventType{
	EventOfferSubmitted,
	EventOfferApproved,
	EventAdPaid,
}

func (e OutboxEventType) String() string {
	return string(e)
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
