package usecase

import (
	"context"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"slices"
	"sync"
	"sync/atomic"
)

func sampleListings() []domain.Listing {
	return []domain.Listing{
		{ID: "a", Title: "Loft", Price: "$120", ImageURL: "http://x/1.png", Lat: 37.5, Lng: 127.0},
		{ID: "b", Title: "Studio", Price: "$90", ImageURL: "http://x/2.png", Lat: 37.51, Lng: 127.01},
		{ID: "c", Title: "Hanok", Price: "$200", ImageURL: "http://x/3.png", Lat: 37.52, Lng: 127.02},
	}
}

type fakeMarker struct {
	position domain.LatLng
	tag      string
	icon     domain.MarkerIcon
	onTap    port.MarkerTapHandler
}

type cameraMove struct {
	position domain.LatLng
	animated bool
}

type fakeMap struct {
	markers     []fakeMarker
	removeCalls int
	moves       []cameraMove
	minZoom     float64
	maxZoom     float64
	tracking    domain.LocationTrackingMode
	myLocation  *domain.LatLng
	lifecycle   []domain.LifecycleEvent
}

func (m *fakeMap) AddMarker(position domain.LatLng, tag string, icon domain.MarkerIcon, onTap port.MarkerTapHandler) {
	m.markers = append(m.markers, fakeMarker{position: position, tag: tag, icon: icon, onTap: onTap})
}

func (m *fakeMap) RemoveAllMarkers() {
	m.removeCalls++
	m.markers = nil
}

func (m *fakeMap) MoveCamera(position domain.LatLng, animated bool) {
	m.moves = append(m.moves, cameraMove{position: position, animated: animated})
}

func (m *fakeMap) SetZoomBounds(min, max float64) { m.minZoom, m.maxZoom = min, max }

func (m *fakeMap) SetLocationTracking(mode domain.LocationTrackingMode) { m.tracking = mode }

func (m *fakeMap) ShowMyLocation(position domain.LatLng) { m.myLocation = &position }

func (m *fakeMap) OnLifecycle(event domain.LifecycleEvent) { m.lifecycle = append(m.lifecycle, event) }

func (m *fakeMap) tap(tag string) error {
	for _, mk := range m.markers {
		if mk.tag == tag {
			mk.onTap(tag)
			return nil
		}
	}
	return nil
}

func (m *fakeMap) lastMove() (cameraMove, bool) {
	if len(m.moves) == 0 {
		return cameraMove{}, false
	}
	return m.moves[len(m.moves)-1], true
}

// fakeCarousel reports page changes synchronously, like a view pager.
type fakeCarousel struct {
	items         []domain.Listing
	index         int
	showPageCalls []int
	onPage        port.PageSelectedHandler
	onClick       port.ItemClickHandler
}

func newFakeCarousel() *fakeCarousel { return &fakeCarousel{index: -1} }

func (c *fakeCarousel) SubmitList(listings []domain.Listing) {
	c.items = slices.Clone(listings)
	c.index = -1
	if len(c.items) > 0 {
		c.index = 0
	}
}

func (c *fakeCarousel) CurrentIndex() int { return c.index }

func (c *fakeCarousel) ShowPage(index int) {
	c.showPageCalls = append(c.showPageCalls, index)
	c.setPage(index)
}

func (c *fakeCarousel) setPage(index int) {
	if index == c.index || index < 0 || index >= len(c.items) {
		return
	}
	c.index = index
	if c.onPage != nil {
		c.onPage(index)
	}
}

// swipe is a user gesture: it does not go through ShowPage.
func (c *fakeCarousel) swipe(index int) error {
	if index < 0 || index >= len(c.items) {
		return domain.ErrPageOutOfRange
	}
	c.setPage(index)
	return nil
}

func (c *fakeCarousel) click(index int) error {
	if index < 0 || index >= len(c.items) {
		return domain.ErrPageOutOfRange
	}
	if c.onClick != nil {
		c.onClick(index)
	}
	return nil
}

func (c *fakeCarousel) SetOnPageSelected(h port.PageSelectedHandler) { c.onPage = h }

func (c *fakeCarousel) SetOnItemClick(h port.ItemClickHandler) { c.onClick = h }

type fakeList struct {
	items       []domain.Listing
	highlighted string
	onClick     func(id string)
}

func (l *fakeList) SubmitList(listings []domain.Listing) { l.items = slices.Clone(listings) }

func (l *fakeList) Highlight(id string) { l.highlighted = id }

func (l *fakeList) SetOnItemClick(h func(id string)) { l.onClick = h }

func (l *fakeList) tap(id string) error {
	if domain.IndexOf(l.items, id) < 0 {
		return nil
	}
	if l.onClick != nil {
		l.onClick(id)
	}
	return nil
}

type fakeLocation struct {
	granted        bool
	grantOnRequest bool
	requests       int
	here           *domain.LatLng
}

func (l *fakeLocation) RequestPermission() bool {
	l.requests++
	l.granted = l.grantOnRequest
	return l.granted
}

func (l *fakeLocation) IsGranted() bool { return l.granted }

func (l *fakeLocation) CurrentLocation() (domain.LatLng, bool) {
	if !l.granted || l.here == nil {
		return domain.LatLng{}, false
	}
	return *l.here, true
}

type fakeNotices struct{ messages []string }

func (n *fakeNotices) ShowError(message string) { n.messages = append(n.messages, message) }

type fakeSharer struct {
	mu       sync.Mutex
	payloads []domain.SharePayload
	sessions []string
	err      error
}

func (s *fakeSharer) Share(ctx context.Context, payload domain.SharePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return s.err
}

func (s *fakeSharer) shared() []domain.SharePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.payloads)
}

// fakeScreen bundles the fakes into a usecase.Screen.
type fakeScreen struct {
	mapView  *fakeMap
	carousel *fakeCarousel
	list     *fakeList
	location *fakeLocation
	notices  *fakeNotices
	sharer   *fakeSharer
}

func newFakeScreen() *fakeScreen {
	return &fakeScreen{
		mapView:  &fakeMap{},
		carousel: newFakeCarousel(),
		list:     &fakeList{},
		location: &fakeLocation{grantOnRequest: true},
		notices:  &fakeNotices{},
		sharer:   &fakeSharer{},
	}
}

func (s *fakeScreen) Views() Views {
	return Views{
		Map:      s.mapView,
		Carousel: s.carousel,
		List:     s.list,
		Location: s.location,
		Notices:  s.notices,
		Sharer:   s.sharer,
	}
}

func (s *fakeScreen) LifecycleObservers() []port.LifecycleObserver {
	return []port.LifecycleObserver{s.mapView}
}

func (s *fakeScreen) View() domain.ScreenView {
	ids := make([]string, len(s.carousel.items))
	for i, l := range s.carousel.items {
		ids[i] = l.ID
	}
	view := domain.ScreenView{
		Carousel: domain.CarouselView{Index: s.carousel.index, ListingIDs: ids},
		List:     domain.ListView{ListingIDs: ids, Highlighted: s.list.highlighted},
	}
	view.Map.MinZoom, view.Map.MaxZoom = s.mapView.minZoom, s.mapView.maxZoom
	view.Map.LocationTracking = s.mapView.tracking
	view.Map.CameraMoves = len(s.mapView.moves)
	if len(s.mapView.lifecycle) > 0 {
		view.Map.Lifecycle = s.mapView.lifecycle[len(s.mapView.lifecycle)-1]
	}
	for _, mk := range s.mapView.markers {
		view.Map.Markers = append(view.Map.Markers, domain.MarkerView{Tag: mk.tag, Position: mk.position, Icon: mk.icon})
	}
	if n := len(s.notices.messages); n > 0 {
		view.LastNotice = s.notices.messages[n-1]
	}
	return view
}

func (s *fakeScreen) TapMarker(tag string) error    { return s.mapView.tap(tag) }
func (s *fakeScreen) SwipeCarousel(index int) error { return s.carousel.swipe(index) }
func (s *fakeScreen) ClickCarousel(index int) error { return s.carousel.click(index) }
func (s *fakeScreen) TapListItem(id string) error   { return s.list.tap(id) }

type fetchReply struct {
	listings []domain.Listing
	err      error
}

// scriptedFetcher answers each call with the next queued reply. With
// ignoreCancel set it keeps waiting for a reply after ctx is cancelled.
type scriptedFetcher struct {
	replies      chan fetchReply
	returned     chan struct{}
	calls        atomic.Int32
	ignoreCancel bool
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		replies:  make(chan fetchReply, 16),
		returned: make(chan struct{}, 16),
	}
}

func (f *scriptedFetcher) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	f.calls.Add(1)
	defer func() { f.returned <- struct{}{} }()

	if f.ignoreCancel {
		r := <-f.replies
		return r.listings, r.err
	}
	select {
	case r := <-f.replies:
		return r.listings, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *scriptedFetcher) reply(listings []domain.Listing, err error) {
	f.replies <- fetchReply{listings: listings, err: err}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []port.SessionEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, event port.SessionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}
