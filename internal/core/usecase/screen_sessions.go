package usecase

import (
	"context"
	"errors"
	"fmt"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"house-map-service/internal/core/port/usecases_port"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScreenFactory builds the views of a new session.
type ScreenFactory func() Screen

// ScreenSessionsConfig - per-session settings shared by all sessions.
type ScreenSessionsConfig struct {
	Binder          BinderConfig
	RefreshInterval time.Duration
	// IdleTimeout closes sessions with no client call for that long. 0 keeps them open.
	IdleTimeout time.Duration
}

// ScreenSessionsUseCase creates, finds and closes screen sessions.
type ScreenSessionsUseCase struct {
	fetcher   port.ListingFetcherPort
	newScreen ScreenFactory
	notifier  port.SessionNotifierPort
	cfg       ScreenSessionsConfig
	logger    port.LoggerPort

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

var _ usecases_port.ScreenSessionsPort = (*ScreenSessionsUseCase)(nil)

func NewScreenSessionsUseCase(
	fetcher port.ListingFetcherPort,
	newScreen ScreenFactory,
	notifier port.SessionNotifierPort,
	cfg ScreenSessionsConfig,
	logger port.LoggerPort,
) *ScreenSessionsUseCase {
	return &ScreenSessionsUseCase{
		fetcher:   fetcher,
		newScreen: newScreen,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Create opens a session, configures its map and starts the first fetch.
func (uc *ScreenSessionsUseCase) Create(ctx context.Context) (uuid.UUID, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "CreateSession"})

	id := uuid.New()
	s := newSession(id, uc.logger, sessionDeps{
		fetcher:         uc.fetcher,
		screen:          uc.newScreen(),
		notifier:        uc.notifier,
		binder:          uc.cfg.Binder,
		refreshInterval: uc.cfg.RefreshInterval,
	})

	uc.mu.Lock()
	uc.sessions[id] = s
	uc.mu.Unlock()

	go func() {
		<-s.Done()
		uc.forget(id)
	}()

	if err := s.start(ctx); err != nil {
		ucLogger.Error("Failed to start session", err, port.Fields{"session_id": id.String()})
		_ = s.Close(context.Background())
		return uuid.Nil, fmt.Errorf("start session: %w", err)
	}

	ucLogger.Info("Session created", port.Fields{"session_id": id.String()})
	return id, nil
}

func (uc *ScreenSessionsUseCase) get(id uuid.UUID) (*Session, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	s, ok := uc.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return s, nil
}

func (uc *ScreenSessionsUseCase) forget(id uuid.UUID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.sessions[id]; ok {
		delete(uc.sessions, id)
		uc.logger.Debug("Session removed", port.Fields{"session_id": id.String()})
	}
}

// withSession runs op on the session and turns a session closed in the
// meantime into ErrSessionNotFound.
func (uc *ScreenSessionsUseCase) withSession(id uuid.UUID, op func(s *Session) error) error {
	s, err := uc.get(id)
	if err != nil {
		return err
	}
	if err := op(s); err != nil {
		if errors.Is(err, domain.ErrSessionClosed) {
			return fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
		}
		return err
	}
	return nil
}

func (uc *ScreenSessionsUseCase) View(ctx context.Context, id uuid.UUID) (domain.SessionView, error) {
	var view domain.SessionView
	err := uc.withSession(id, func(s *Session) error {
		var err error
		view, err = s.View(ctx)
		return err
	})
	return view, err
}

func (uc *ScreenSessionsUseCase) Close(ctx context.Context, id uuid.UUID) error {
	return uc.withSession(id, func(s *Session) error {
		if err := s.Close(ctx); err != nil {
			return err
		}
		uc.forget(id)
		return nil
	})
}

func (uc *ScreenSessionsUseCase) Refresh(ctx context.Context, id uuid.UUID) error {
	return uc.withSession(id, func(s *Session) error { return s.Refresh(ctx) })
}

func (uc *ScreenSessionsUseCase) TapMarker(ctx context.Context, id uuid.UUID, listingID string) error {
	return uc.withSession(id, func(s *Session) error { return s.TapMarker(ctx, listingID) })
}

func (uc *ScreenSessionsUseCase) SwipeCarousel(ctx context.Context, id uuid.UUID, index int) error {
	return uc.withSession(id, func(s *Session) error { return s.SwipeCarousel(ctx, index) })
}

func (uc *ScreenSessionsUseCase) ClickCarouselPage(ctx context.Context, id uuid.UUID, index int) error {
	return uc.withSession(id, func(s *Session) error { return s.ClickCarouselPage(ctx, index) })
}

func (uc *ScreenSessionsUseCase) TapListItem(ctx context.Context, id uuid.UUID, listingID string) error {
	return uc.withSession(id, func(s *Session) error { return s.TapListItem(ctx, listingID) })
}

func (uc *ScreenSessionsUseCase) ShareListing(ctx context.Context, id uuid.UUID, listingID string) error {
	return uc.withSession(id, func(s *Session) error { return s.ShareListing(ctx, listingID) })
}

func (uc *ScreenSessionsUseCase) Lifecycle(ctx context.Context, id uuid.UUID, event domain.LifecycleEvent) error {
	return uc.withSession(id, func(s *Session) error {
		if err := s.Lifecycle(ctx, event); err != nil {
			return err
		}
		if event == domain.LifecycleDestroy {
			uc.forget(id)
		}
		return nil
	})
}

// Count returns the number of open sessions.
func (uc *ScreenSessionsUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

// CloseAll closes every open session. Used on shutdown.
func (uc *ScreenSessionsUseCase) CloseAll(ctx context.Context) {
	uc.mu.RLock()
	sessions := make([]*Session, 0, len(uc.sessions))
	for _, s := range uc.sessions {
		sessions = append(sessions, s)
	}
	uc.mu.RUnlock()

	for _, s := range sessions {
		if err := s.Close(ctx); err != nil && !errors.Is(err, domain.ErrSessionClosed) {
			uc.logger.Warn("Failed to close session on shutdown", port.Fields{"session_id": s.ID().String(), "error": err.Error()})
		}
		uc.forget(s.ID())
	}
	uc.logger.Info("All sessions closed", port.Fields{"sessions_count": len(sessions)})
}

// CloseIdle closes every session idle for at least IdleTimeout at now and
// returns how many were closed.
func (uc *ScreenSessionsUseCase) CloseIdle(ctx context.Context, now time.Time) int {
	if uc.cfg.IdleTimeout <= 0 {
		return 0
	}

	uc.mu.RLock()
	var idle []*Session
	for _, s := range uc.sessions {
		if s.IdleFor(now) >= uc.cfg.IdleTimeout {
			idle = append(idle, s)
		}
	}
	uc.mu.RUnlock()

	for _, s := range idle {
		if err := s.Close(ctx); err != nil && !errors.Is(err, domain.ErrSessionClosed) {
			uc.logger.Warn("Failed to close idle session", port.Fields{"session_id": s.ID().String(), "error": err.Error()})
		}
		uc.forget(s.ID())
	}
	if len(idle) > 0 {
		uc.logger.Info("Idle sessions closed", port.Fields{"sessions_count": len(idle), "idle_timeout": uc.cfg.IdleTimeout.String()})
	}
	return len(idle)
}

// RunIdleSweeper calls CloseIdle every interval until ctx is done.
func (uc *ScreenSessionsUseCase) RunIdleSweeper(ctx context.Context, interval time.Duration) {
	if uc.cfg.IdleTimeout <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			uc.CloseIdle(ctx, now)
		}
	}
}
