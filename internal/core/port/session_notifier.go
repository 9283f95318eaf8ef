package port

import "context"

// SessionEvent - event pushed to clients watching one screen session.
type SessionEvent struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Data      interface{} `json:"data"`
}

// SessionNotifierPort delivers session events in real time.
type SessionNotifierPort interface {
	Notify(ctx context.Context, event SessionEvent)
}
