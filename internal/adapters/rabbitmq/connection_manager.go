package rabbitmq

import (
	"errors"
	"fmt"
	"house-map-service/internal/core/port"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const redialInterval = 10 * time.Second

var errManagerClosed = errors.New("rabbitmq connection manager is closed")

// ConnectionManager owns the broker connection of the process. When the
// broker drops it, a watcher re-dials every redialInterval until it succeeds
// or the manager is closed.
type ConnectionManager struct {
	url    string
	logger port.LoggerPort

	mu   sync.RWMutex
	conn *amqp.Connection

	done      chan struct{}
	closeOnce sync.Once
}

func NewConnectionManager(url string, logger port.LoggerPort) (*ConnectionManager, error) {
	m := &ConnectionManager{
		url:    url,
		logger: logger.WithFields(port.Fields{"component": "RabbitMQConnectionManager"}),
		done:   make(chan struct{}),
	}
	conn, err := m.dial()
	if err != nil {
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}
	go m.watch(conn)
	return m, nil
}

func (m *ConnectionManager) dial() (*amqp.Connection, error) {
	conn, err := amqp.Dial(m.url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
	m.logger.Info("Connected to RabbitMQ", nil)
	return conn, nil
}

// watch waits for conn to close and replaces it.
func (m *ConnectionManager) watch(conn *amqp.Connection) {
	for {
		closed := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-m.done:
			return
		case amqpErr, ok := <-closed:
			if ok && amqpErr != nil {
				m.logger.Warn("RabbitMQ connection lost", port.Fields{"reason": amqpErr.Reason, "code": amqpErr.Code})
			}
		}

		next, ok := m.redial()
		if !ok {
			return
		}
		conn = next
	}
}

func (m *ConnectionManager) redial() (*amqp.Connection, bool) {
	ticker := time.NewTicker(redialInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return nil, false
		case <-ticker.C:
		}
		conn, err := m.dial()
		if err == nil {
			return conn, true
		}
		m.logger.Error("RabbitMQ reconnect failed", err, port.Fields{"retry_in": redialInterval.String()})
	}
}

// GetChannel opens a new channel on the current connection.
func (m *ConnectionManager) GetChannel() (*amqp.Channel, error) {
	select {
	case <-m.done:
		return nil, errManagerClosed
	default:
	}

	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()
	if conn == nil || conn.IsClosed() {
		return nil, fmt.Errorf("rabbitmq connection is down")
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	return ch, nil
}

// Close stops the watcher and closes the connection.
func (m *ConnectionManager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil || m.conn.IsClosed() {
		return nil
	}
	if err := m.conn.Close(); err != nil {
		m.logger.Error("Failed to close RabbitMQ connection", err, nil)
		return err
	}
	m.logger.Info("RabbitMQ connection closed", nil)
	return nil
}
