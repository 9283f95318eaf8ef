package rabbitmq

import (
	"context"
	"fmt"
	"house-map-service/internal/core/port"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig - exchange the publisher writes to.
type PublisherConfig struct {
	ExchangeName    string
	ExchangeType    string
	DurableExchange bool
}

// Publisher publishes to one exchange and reopens its channel when the
// previous one was closed by the broker.
type Publisher struct {
	config  PublisherConfig
	manager *ConnectionManager
	logger  port.LoggerPort

	mu      sync.Mutex
	channel *amqp.Channel
}

func NewPublisher(cfg PublisherConfig, manager *ConnectionManager, logger port.LoggerPort) (*Publisher, error) {
	if cfg.ExchangeName == "" || cfg.ExchangeType == "" {
		return nil, fmt.Errorf("publisher: exchange name and type are required")
	}
	p := &Publisher{
		config:  cfg,
		manager: manager,
		logger:  logger.WithFields(port.Fields{"component": "RabbitMQPublisher", "exchange": cfg.ExchangeName}),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.channelLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

// channelLocked returns an open channel with the exchange declared. p.mu must be held.
func (p *Publisher) channelLocked() (*amqp.Channel, error) {
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}

	ch, err := p.manager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("publisher: %w", err)
	}
	err = ch.ExchangeDeclare(
		p.config.ExchangeName,
		p.config.ExchangeType,
		p.config.DurableExchange,
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("publisher: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
	}

	p.channel = ch
	p.logger.Debug("Channel opened and exchange declared", port.Fields{"type": p.config.ExchangeType})
	return ch, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publisher: failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.logger.Error("Error closing channel", err, nil)
		return err
	}
	p.logger.Debug("Publisher closed", nil)
	return nil
}
