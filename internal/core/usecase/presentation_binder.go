package usecase

import (
	"context"
	"errors"
	"fmt"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
)

// BinderConfig - static map and share settings of a screen.
type BinderConfig struct {
	MinZoom       float64
	MaxZoom       float64
	InitialCamera domain.LatLng
	MarkerIcon    domain.MarkerIcon
	ShareTemplate string
}

// Views groups the collaborators the binder renders into.
type Views struct {
	Map      port.MapSurfacePort
	Carousel port.CarouselPort
	List     port.ListPort
	Location port.LocationSourcePort
	Notices  port.NoticePort
	Sharer   port.SharePort
}

// PresentationBinder keeps the map markers, the carousel and the list in
// line with the listing store and turns user gestures into selection
// requests. All methods must be called from the session's event loop.
type PresentationBinder struct {
	store  port.ListingStorePort
	views  Views
	cfg    BinderConfig
	logger port.LoggerPort

	ctx         context.Context
	state       domain.SyncState
	unsubscribe func()
}

func NewPresentationBinder(store port.ListingStorePort, views Views, cfg BinderConfig) *PresentationBinder {
	if cfg.MarkerIcon == (domain.MarkerIcon{}) {
		cfg.MarkerIcon = domain.DefaultMarkerIcon
	}
	return &PresentationBinder{
		store:  store,
		views:  views,
		cfg:    cfg,
		logger: contextkeys.NoopLogger(),
		ctx:    context.Background(),
		state:  domain.SyncIdle,
	}
}

// Attach subscribes to the store, hooks the view callbacks and renders
// whatever the store already holds. ctx carries the session logger and is
// used for share requests started from view callbacks.
func (b *PresentationBinder) Attach(ctx context.Context) {
	b.ctx = ctx
	b.logger = contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "PresentationBinder"})

	b.unsubscribe = b.store.Subscribe(b.onStoreChange)
	b.views.Carousel.SetOnPageSelected(b.OnPageSelected)
	b.views.Carousel.SetOnItemClick(b.OnCarouselItemClicked)
	b.views.List.SetOnItemClick(b.OnListItemTapped)

	b.renderListings(b.store.CurrentSnapshot())
	b.logger.Debug("Binder attached", nil)
}

func (b *PresentationBinder) Detach() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.views.Carousel.SetOnPageSelected(nil)
	b.views.Carousel.SetOnItemClick(nil)
	b.views.List.SetOnItemClick(nil)
	b.logger.Debug("Binder detached", nil)
}

func (b *PresentationBinder) State() domain.SyncState { return b.state }

// OnMapReady applies zoom bounds, the start camera and the location mode.
func (b *PresentationBinder) OnMapReady() {
	b.views.Map.SetZoomBounds(b.cfg.MinZoom, b.cfg.MaxZoom)
	b.views.Map.MoveCamera(b.cfg.InitialCamera, false)

	loc := b.views.Location
	if loc == nil {
		b.views.Map.SetLocationTracking(domain.TrackingNone)
		return
	}
	granted := loc.IsGranted() || loc.RequestPermission()
	if !granted {
		b.logger.Info("Location permission denied, tracking disabled", nil)
		b.views.Map.SetLocationTracking(domain.TrackingNone)
		return
	}
	b.views.Map.SetLocationTracking(domain.TrackingNoFollow)
	if here, ok := loc.CurrentLocation(); ok {
		b.views.Map.ShowMyLocation(here)
	}
}

// OnMarkerTapped handles a marker tap. The tap is always consumed.
func (b *PresentationBinder) OnMarkerTapped(tag string) bool {
	b.transition(domain.SyncingFromMap)
	defer b.transition(domain.SyncIdle)

	if !b.store.Select(tag, domain.OriginMap) {
		b.logger.Debug("Marker tap ignored", port.Fields{"tag": tag, "reason": domain.ErrSelectionNotFound.Error()})
	}
	return true
}

// OnListItemTapped handles a tap on a list row.
func (b *PresentationBinder) OnListItemTapped(id string) {
	b.transition(domain.SyncingFromList)
	defer b.transition(domain.SyncIdle)

	if !b.store.Select(id, domain.OriginList) {
		b.logger.Debug("List tap ignored", port.Fields{"listing_id": id, "reason": domain.ErrSelectionNotFound.Error()})
	}
}

// OnPageSelected is the carousel's page-change callback. It fires both for
// user swipes and for programmatic changes made by syncCarousel; the sync
// state tells the two apart.
func (b *PresentationBinder) OnPageSelected(index int) {
	snapshot := b.store.CurrentSnapshot()
	if index < 0 || index >= len(snapshot.Listings) {
		b.logger.Debug("Page change outside listing set ignored", port.Fields{"index": index})
		return
	}
	listing := snapshot.Listings[index]

	switch b.state {
	case domain.SyncingFromMap, domain.SyncingFromList:
		// echo of our own ShowPage: follow with the camera, do not select again
		b.views.Map.MoveCamera(listing.Position(), true)
		b.transition(domain.SyncIdle)
		return
	case domain.SyncingFromCarousel:
		return
	}

	b.transition(domain.SyncingFromCarousel)
	defer b.transition(domain.SyncIdle)

	b.store.Select(listing.ID, domain.OriginCarousel)
	b.views.Map.MoveCamera(listing.Position(), true)
}

// OnCarouselItemClicked shares the listing shown on the clicked page.
func (b *PresentationBinder) OnCarouselItemClicked(index int) {
	snapshot := b.store.CurrentSnapshot()
	if index < 0 || index >= len(snapshot.Listings) {
		return
	}
	if err := b.ShareListing(b.ctx, snapshot.Listings[index].ID); err != nil {
		b.logger.Error("Share from carousel failed", err, port.Fields{"index": index})
	}
}

// ShareListing builds the share text for the listing and hands it to the share facility.
func (b *PresentationBinder) ShareListing(ctx context.Context, id string) error {
	listing, ok := b.store.CurrentSnapshot().ListingByID(id)
	if !ok {
		return fmt.Errorf("share %q: %w", id, domain.ErrListingNotFound)
	}
	payload := domain.NewSharePayload(listing, b.cfg.ShareTemplate)
	if err := b.views.Sharer.Share(ctx, payload); err != nil {
		return fmt.Errorf("share %q: %w", id, err)
	}
	b.logger.Info("Listing shared", port.Fields{"listing_id": id})
	return nil
}

// ReportFetchFailure is the user-visible hook for a failed fetch.
func (b *PresentationBinder) ReportFetchFailure(err error) {
	if errors.Is(err, domain.ErrFetchInFlight) {
		return
	}
	b.logger.Warn("Reporting fetch failure to user", port.Fields{"error": err.Error()})
	if b.views.Notices != nil {
		b.views.Notices.ShowError(FetchFailureMessage(err))
	}
}

// FetchFailureMessage - toast text for a fetch error.
func FetchFailureMessage(err error) string {
	kind, _ := domain.FetchErrorKindOf(err)
	switch kind {
	case domain.TransportFailure:
		return "Could not reach the listing service. Check your connection."
	case domain.ServerRejected:
		return "The listing service is unavailable right now."
	case domain.MalformedResponse:
		return "The listing service sent data we could not read."
	default:
		return "Could not load listings."
	}
}

func (b *PresentationBinder) onStoreChange(change domain.StoreChange) {
	switch change.Kind {
	case domain.ChangeListingsReplaced:
		b.renderListings(change.Snapshot)
	case domain.ChangeSelectionChanged:
		b.renderSelection(change)
	}
}

func (b *PresentationBinder) renderListings(snapshot domain.Snapshot) {
	b.views.Map.RemoveAllMarkers()
	for _, l := range snapshot.Listings {
		b.views.Map.AddMarker(l.Position(), l.ID, b.cfg.MarkerIcon, b.OnMarkerTapped)
	}
	b.views.Carousel.SubmitList(snapshot.Listings)
	b.views.List.SubmitList(snapshot.Listings)
	b.views.List.Highlight(snapshot.Selection.ID)
	b.transition(domain.SyncIdle)

	b.logger.Debug("Listings rendered", port.Fields{"markers": len(snapshot.Listings)})
}

func (b *PresentationBinder) renderSelection(change domain.StoreChange) {
	b.views.List.Highlight(change.Snapshot.Selection.ID)

	switch change.Origin {
	case domain.OriginMap, domain.OriginList:
		b.syncCarousel(change.Snapshot)
	case domain.OriginCarousel:
		if b.state == domain.SyncingFromCarousel {
			b.transition(domain.SyncIdle)
		}
	}
}

// syncCarousel moves the carousel to the selected listing. The resulting
// page change comes back through OnPageSelected while the state still says
// where the selection came from.
func (b *PresentationBinder) syncCarousel(snapshot domain.Snapshot) {
	index := snapshot.SelectedIndex()
	if index < 0 {
		return
	}
	if b.views.Carousel.CurrentIndex() == index {
		// no page change will be reported
		b.transition(domain.SyncIdle)
		return
	}
	b.views.Carousel.ShowPage(index)
}

func (b *PresentationBinder) transition(to domain.SyncState) {
	if b.state == to {
		return
	}
	b.logger.Debug("Sync state changed", port.Fields{"from": b.state.String(), "to": to.String()})
	b.state = to
}
