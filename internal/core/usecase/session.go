package usecase

import (
	"context"
	"errors"
	"fmt"
	"house-map-service/internal/constants"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"house-map-service/internal/core/store"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Screen - the views of one session plus the gestures a client can
// simulate on them.
type Screen interface {
	Views() Views
	LifecycleObservers() []port.LifecycleObserver
	View() domain.ScreenView

	TapMarker(tag string) error
	SwipeCarousel(index int) error
	ClickCarousel(index int) error
	TapListItem(id string) error
}

// Session is one open map screen. A single goroutine owns the store, the
// binder and the screen; everything else reaches them through do.
type Session struct {
	id       uuid.UUID
	store    *store.ListingStore
	binder   *PresentationBinder
	screen   Screen
	gateway  *FetchGateway
	notifier port.SessionNotifierPort
	limiter  *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc
	logger port.LoggerPort

	jobs       chan func()
	done       chan struct{}
	closed     atomic.Bool
	lastActive atomic.Int64 // unix nanos of the last client call
}

type sessionDeps struct {
	fetcher         port.ListingFetcherPort
	screen          Screen
	notifier        port.SessionNotifierPort
	binder          BinderConfig
	refreshInterval time.Duration
}

func newSession(id uuid.UUID, baseLogger port.LoggerPort, deps sessionDeps) *Session {
	logger := baseLogger.WithFields(port.Fields{"session_id": id.String()})

	ctx := contextkeys.ContextWithLogger(context.Background(), logger)
	ctx = contextkeys.ContextWithSessionID(ctx, id.String())
	ctx, cancel := context.WithCancel(ctx)

	listingStore := store.NewListingStore(logger)

	limit := rate.Inf
	if deps.refreshInterval > 0 {
		limit = rate.Every(deps.refreshInterval)
	}

	s := &Session{
		id:       id,
		store:    listingStore,
		binder:   NewPresentationBinder(listingStore, deps.screen.Views(), deps.binder),
		screen:   deps.screen,
		gateway:  NewFetchGateway(deps.fetcher),
		notifier: deps.notifier,
		limiter:  rate.NewLimiter(limit, 1),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger.WithFields(port.Fields{"component": "Session"}),
		jobs:     make(chan func()),
		done:     make(chan struct{}),
	}
	s.lastActive.Store(time.Now().UnixNano())
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

// Done is closed once the event loop has stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// IdleFor reports how long before now the last client call was made.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastActive.Load()))
}

// start runs the event loop, applies the map-ready configuration and
// requests the first listing set.
func (s *Session) start(ctx context.Context) error {
	go s.run()
	return s.do(ctx, func() error {
		s.binder.Attach(s.ctx)
		s.store.Subscribe(s.publishChange)
		s.binder.OnMapReady()
		// the first load uses up the refresh budget
		s.limiter.Allow()
		s.startFetch()
		s.logger.Info("Session started", nil)
		return nil
	})
}

func (s *Session) run() {
	defer close(s.done)
	for job := range s.jobs {
		job()
		if s.closed.Load() {
			return
		}
	}
}

// do runs fn on the event loop and waits for its result.
func (s *Session) do(ctx context.Context, fn func() error) error {
	s.lastActive.Store(time.Now().UnixNano())
	result := make(chan error, 1)
	job := func() {
		if s.closed.Load() {
			result <- domain.ErrSessionClosed
			return
		}
		result <- fn()
	}

	select {
	case s.jobs <- job:
	case <-s.done:
		return domain.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startFetch must run on the loop.
func (s *Session) startFetch() {
	results := s.gateway.FetchListings(s.ctx)
	go func() {
		res, ok := <-results
		if !ok {
			return
		}
		select {
		case s.jobs <- func() { s.applyFetchResult(res) }:
		case <-s.done:
			s.logger.Debug("Fetch result arrived after close, dropped", nil)
		}
	}()
}

func (s *Session) applyFetchResult(res domain.FetchResult) {
	if s.closed.Load() {
		s.logger.Debug("Fetch result arrived after close, dropped", nil)
		return
	}
	if res.Err != nil {
		if errors.Is(res.Err, domain.ErrFetchInFlight) {
			return
		}
		s.binder.ReportFetchFailure(res.Err)
		kind, _ := domain.FetchErrorKindOf(res.Err)
		s.notify(constants.EventFetchFailed, FetchFailedEvent{
			Kind:    string(kind),
			Message: FetchFailureMessage(res.Err),
		})
		return
	}
	s.store.ReplaceAll(res.Listings)
}

func (s *Session) publishChange(change domain.StoreChange) {
	switch change.Kind {
	case domain.ChangeListingsReplaced:
		ids := make([]string, len(change.Snapshot.Listings))
		for i, l := range change.Snapshot.Listings {
			ids[i] = l.ID
		}
		s.notify(constants.EventListingsReplaced, ListingsReplacedEvent{Count: len(ids), ListingIDs: ids})
	case domain.ChangeSelectionChanged:
		s.notify(constants.EventSelectionChanged, SelectionChangedEvent{
			ListingID: change.Snapshot.Selection.ID,
			Index:     change.Snapshot.SelectedIndex(),
			Origin:    string(change.Origin),
		})
	}
}

func (s *Session) notify(eventType string, data interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(s.ctx, port.SessionEvent{Type: eventType, SessionID: s.id.String(), Data: data})
}

// Refresh starts a new fetch unless one is pending or the last one was
// requested too recently.
func (s *Session) Refresh(ctx context.Context) error {
	return s.do(ctx, func() error {
		if s.gateway.InFlight() {
			return domain.ErrFetchInFlight
		}
		if !s.limiter.Allow() {
			return domain.ErrRefreshThrottled
		}
		s.logger.Info("Manual refresh requested", nil)
		s.startFetch()
		return nil
	})
}

func (s *Session) TapMarker(ctx context.Context, listingID string) error {
	return s.do(ctx, func() error { return s.screen.TapMarker(listingID) })
}

func (s *Session) SwipeCarousel(ctx context.Context, index int) error {
	return s.do(ctx, func() error { return s.screen.SwipeCarousel(index) })
}

func (s *Session) ClickCarouselPage(ctx context.Context, index int) error {
	return s.do(ctx, func() error { return s.screen.ClickCarousel(index) })
}

func (s *Session) TapListItem(ctx context.Context, listingID string) error {
	return s.do(ctx, func() error { return s.screen.TapListItem(listingID) })
}

func (s *Session) ShareListing(ctx context.Context, listingID string) error {
	shareCtx := contextkeys.ContextWithSessionID(ctx, s.id.String())
	return s.do(ctx, func() error { return s.binder.ShareListing(shareCtx, listingID) })
}

// Lifecycle forwards the event to the screen's observers. Destroy also
// closes the session.
func (s *Session) Lifecycle(ctx context.Context, event domain.LifecycleEvent) error {
	return s.do(ctx, func() error {
		for _, o := range s.screen.LifecycleObservers() {
			o.OnLifecycle(event)
		}
		s.logger.Debug("Lifecycle event forwarded", port.Fields{"event": string(event)})
		if event == domain.LifecycleDestroy {
			s.shutdown()
		}
		return nil
	})
}

func (s *Session) View(ctx context.Context) (domain.SessionView, error) {
	var view domain.SessionView
	err := s.do(ctx, func() error {
		view = domain.SessionView{
			Snapshot:  s.store.CurrentSnapshot(),
			SyncState: s.binder.State(),
			Fetching:  s.gateway.InFlight(),
			Screen:    s.screen.View(),
		}
		return nil
	})
	return view, err
}

// Close detaches the binder and stops the loop. A fetch still pending is
// cancelled and its result is never applied.
func (s *Session) Close(ctx context.Context) error {
	err := s.do(ctx, func() error {
		s.shutdown()
		return nil
	})
	if err != nil {
		return fmt.Errorf("close session %s: %w", s.id, err)
	}
	return nil
}

// shutdown must run on the loop.
func (s *Session) shutdown() {
	s.binder.Detach()
	s.closed.Store(true)
	s.cancel()
	s.notify(constants.EventSessionClosed, struct{}{})
	s.logger.Info("Session closed", nil)
}

// SSE payloads.

type ListingsReplacedEvent struct {
	Count      int      `json:"count"`
	ListingIDs []string `json:"listing_ids"`
}

type SelectionChangedEvent struct {
	ListingID string `json:"listing_id"`
	Index     int    `json:"index"`
	Origin    string `json:"origin"`
}

type FetchFailedEvent struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
