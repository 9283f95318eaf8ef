package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/port"
	"slices"
	"sync"
)

const (
	eventBufferSize  = 256
	clientBufferSize = 64
)

// ClientChannel carries ready-to-write SSE frames to one connection.
type ClientChannel chan []byte

type eventWithContext struct {
	ctx   context.Context
	event port.SessionEvent
}

// SSENotifier fans session events out to every SSE connection watching
// that session. It implements port.SessionNotifierPort.
type SSENotifier struct {
	// session id -> open connections
	clients map[string][]ClientChannel
	mu      sync.RWMutex

	eventChan chan eventWithContext
	done      chan struct{}
	closeOnce sync.Once

	logger port.LoggerPort
}

var _ port.SessionNotifierPort = (*SSENotifier)(nil)

// NewSSENotifier creates the notifier and starts its dispatcher.
func NewSSENotifier(baseLogger port.LoggerPort) *SSENotifier {
	n := &SSENotifier{
		clients:   make(map[string][]ClientChannel),
		eventChan: make(chan eventWithContext, eventBufferSize),
		done:      make(chan struct{}),
		logger:    baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}
	go n.dispatcher()
	return n
}

func (n *SSENotifier) dispatcher() {
	n.logger.Debug("Notifier dispatcher started", nil)
	for {
		select {
		case <-n.done:
			n.logger.Debug("Notifier dispatcher stopped", nil)
			return
		case pkg := <-n.eventChan:
			n.dispatch(pkg.ctx, pkg.event)
		}
	}
}

func (n *SSENotifier) dispatch(ctx context.Context, event port.SessionEvent) {
	eventLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "SSENotifier.dispatcher",
		"event_type": event.Type,
		"session_id": event.SessionID,
	})

	frame, err := FormatEvent(event.Type, event.Data)
	if err != nil {
		eventLogger.Error("Failed to marshal event", err, nil)
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	channels, found := n.clients[event.SessionID]
	if !found {
		eventLogger.Debug("No active clients for session, event dropped", nil)
		return
	}
	for _, ch := range channels {
		select {
		case ch <- frame:
		default:
			eventLogger.Warn("Client channel is full, skipping", nil)
		}
	}
}

// Notify queues the event for dispatch. It never blocks the caller: when
// the queue is full the event is dropped.
func (n *SSENotifier) Notify(ctx context.Context, event port.SessionEvent) {
	select {
	case <-n.done:
	case n.eventChan <- eventWithContext{ctx: ctx, event: event}:
	default:
		contextkeys.LoggerFromContext(ctx).Warn("Notifier queue is full, event dropped", port.Fields{
			"event_type": event.Type,
			"session_id": event.SessionID,
		})
	}
}

// AddClient registers a new SSE connection for the session.
func (n *SSENotifier) AddClient(sessionID string) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, clientBufferSize)
	n.clients[sessionID] = append(n.clients[sessionID], ch)

	n.logger.Info("Client connected to session", port.Fields{
		"session_id":        sessionID,
		"connections_count": len(n.clients[sessionID]),
	})
	return ch
}

// RemoveClient unregisters a connection when the client goes away.
func (n *SSENotifier) RemoveClient(sessionID string, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels, found := n.clients[sessionID]
	if !found {
		return
	}
	channels = slices.DeleteFunc(channels, func(c ClientChannel) bool { return c == ch })
	if len(channels) == 0 {
		delete(n.clients, sessionID)
		n.logger.Debug("Last client disconnected from session", port.Fields{"session_id": sessionID})
		return
	}
	n.clients[sessionID] = channels
	n.logger.Info("Client disconnected from session", port.Fields{
		"session_id":            sessionID,
		"remaining_connections": len(channels),
	})
}

// Close stops the dispatcher. Queued events are discarded.
func (n *SSENotifier) Close() {
	n.closeOnce.Do(func() { close(n.done) })
}

// FormatEvent renders one SSE frame with a JSON data line.
func FormatEvent(eventType string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, payload)), nil
}
