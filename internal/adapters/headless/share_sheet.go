package headless

import (
	"context"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
)

// ShareSheet records the last shared payload and hands it on to the
// chosen target, if any (the broker publisher in production).
type ShareSheet struct {
	last   *domain.SharePayload
	target port.SharePort
}

func NewShareSheet(target port.SharePort) *ShareSheet {
	return &ShareSheet{target: target}
}

func (s *ShareSheet) Share(ctx context.Context, payload domain.SharePayload) error {
	p := payload
	s.last = &p
	if s.target == nil {
		return nil
	}
	return s.target.Share(ctx, payload)
}

func (s *ShareSheet) Last() *domain.SharePayload { return s.last }
