package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"house-map-service/internal/constants"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	routingKeys []string
	messages    []amqp.Publishing
	hadDeadline bool
	err         error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	_, p.hadDeadline = ctx.Deadline()
	p.routingKeys = append(p.routingKeys, routingKey)
	p.messages = append(p.messages, msg)
	return p.err
}

func TestNewShareEventPublisherRequiresProducer(t *testing.T) {
	_, err := NewShareEventPublisher(nil)
	assert.Error(t, err)
}

func TestSharePublishesListingSharedEvent(t *testing.T) {
	rec := &recordingPublisher{}
	a, err := NewShareEventPublisher(rec)
	require.NoError(t, err)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-42")
	ctx = contextkeys.ContextWithSessionID(ctx, "session-1")
	payload := domain.SharePayload{ListingID: "a", Text: "Loft $120", MIMEType: domain.ShareMIMEType}

	require.NoError(t, a.Share(ctx, payload))

	require.Len(t, rec.messages, 1)
	assert.Equal(t, constants.RoutingKeyListingShared, rec.routingKeys[0])
	assert.True(t, rec.hadDeadline)

	msg := rec.messages[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "trace-42", msg.Headers["x-trace-id"])

	var event ListingSharedEvent
	require.NoError(t, json.Unmarshal(msg.Body, &event))
	assert.Equal(t, "a", event.ListingID)
	assert.Equal(t, "session-1", event.SessionID)
	assert.Equal(t, "Loft $120", event.Text)
	assert.Equal(t, "text/plain", event.MIMEType)
	assert.True(t, fixed.Equal(event.SharedAt))
	assert.Equal(t, event.EventID.String(), msg.MessageId)
}

func TestShareReturnsPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	a, err := NewShareEventPublisher(&recordingPublisher{err: boom})
	require.NoError(t, err)

	err = a.Share(context.Background(), domain.SharePayload{ListingID: "a"})
	assert.ErrorIs(t, err, boom)
}
