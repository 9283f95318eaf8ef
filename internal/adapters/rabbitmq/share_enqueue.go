package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"house-map-service/internal/constants"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// MessagePublisher is the part of Publisher the share adapter needs.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ListingSharedEvent - body of a "listing.shared" message.
type ListingSharedEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	SessionID string    `json:"session_id,omitempty"`
	ListingID string    `json:"listing_id"`
	Text      string    `json:"text"`
	MIMEType  string    `json:"mime_type"`
	SharedAt  time.Time `json:"shared_at"`
}

// ShareEventPublisher hands share payloads to downstream consumers through
// the broker. It implements port.SharePort.
type ShareEventPublisher struct {
	producer   MessagePublisher
	routingKey string
	now        func() time.Time
}

var _ port.SharePort = (*ShareEventPublisher)(nil)

func NewShareEventPublisher(producer MessagePublisher) (*ShareEventPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &ShareEventPublisher{
		producer:   producer,
		routingKey: constants.RoutingKeyListingShared,
		now:        time.Now,
	}, nil
}

func (a *ShareEventPublisher) Share(ctx context.Context, payload domain.SharePayload) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ShareEventPublisher",
		"routing_key": a.routingKey,
		"listing_id":  payload.ListingID,
	})

	event := ListingSharedEvent{
		EventID:   uuid.New(),
		SessionID: contextkeys.SessionIDFromContext(ctx),
		ListingID: payload.ListingID,
		Text:      payload.Text,
		MIMEType:  payload.MIMEType,
		SharedAt:  a.now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal share event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to marshal share event for %s: %w", payload.ListingID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.SharedAt,
		MessageId:    event.EventID.String(),
		Headers:      make(amqp.Table),
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish share event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish share event for %s: %w", payload.ListingID, err)
	}

	logger.Info("Share event published", port.Fields{"event_id": event.EventID.String()})
	return nil
}
