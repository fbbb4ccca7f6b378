package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"barbersbuddies/pkg/domain"
)

// Event types. Each one stands in for a document trigger of the store.
const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
	MessageCreated = "message.created"
	RatingCreated  = "rating.created"
	ShopCreated    = "shop.created"
	ShopUpdated    = "shop.updated"
	ShopDeleted    = "shop.deleted"
	AccountDeleted = "account.deleted"
)

// Booking change kinds carried by BookingUpdated.
const (
	ChangeUpdated     = "updated"
	ChangeCancelled   = "cancelled"
	ChangeRescheduled = "rescheduled"
	ChangeStatus      = "status"
)

// Envelope is the message written to the outbox and then to Kafka.
type Envelope struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

func New(eventType, aggregateID string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &Envelope{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     data,
	}, nil
}

func Decode[T any](env *Envelope) (T, error) {
	var t T
	if err := json.Unmarshal(env.Payload, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s payload failed: %w", env.Type, err)
	}
	return t, nil
}

type BookingCreatedPayload struct {
	Booking domain.Booking `json:"booking"`
}

// BookingUpdatedPayload carries both snapshots so triggers can diff them.
type BookingUpdatedPayload struct {
	Change string         `json:"change"`
	Before domain.Booking `json:"before"`
	After  domain.Booking `json:"after"`
}

type MessageCreatedPayload struct {
	Message        domain.Message `json:"message"`
	RecipientID    string         `json:"recipient_id,omitempty"`
	RecipientEmail string         `json:"recipient_email,omitempty"`
	SenderName     string         `json:"sender_name,omitempty"`
}

type RatingCreatedPayload struct {
	Rating domain.Rating `json:"rating"`
}

type ShopPayload struct {
	Before *domain.Shop `json:"before,omitempty"`
	After  *domain.Shop `json:"after,omitempty"`
}

type AccountDeletedPayload struct {
	Account domain.DeletedAccount `json:"account"`
}
