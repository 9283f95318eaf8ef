package domain

import "strings"

// SyncState - state of the map <-> carousel selection sync.
// Every gesture ends in SyncIdle; the other states only exist while
// one gesture is being processed.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncingFromMap
	SyncingFromCarousel
	SyncingFromList
)

func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncingFromMap:
		return "syncing_from_map"
	case SyncingFromCarousel:
		return "syncing_from_carousel"
	case SyncingFromList:
		return "syncing_from_list"
	default:
		return "unknown"
	}
}

// MarkerIcon - icon and tint used for listing markers.
type MarkerIcon struct {
	Name string
	Tint string
}

var DefaultMarkerIcon = MarkerIcon{Name: "BLACK", Tint: "RED"}

// LocationTrackingMode mirrors the map SDK's "my location" modes.
type LocationTrackingMode string

const (
	TrackingNone     LocationTrackingMode = "none"
	TrackingNoFollow LocationTrackingMode = "no_follow"
	TrackingFollow   LocationTrackingMode = "follow"
)

// LifecycleEvent - screen lifecycle notifications forwarded to the map surface.
type LifecycleEvent string

const (
	LifecycleStart     LifecycleEvent = "start"
	LifecycleResume    LifecycleEvent = "resume"
	LifecyclePause     LifecycleEvent = "pause"
	LifecycleStop      LifecycleEvent = "stop"
	LifecycleDestroy   LifecycleEvent = "destroy"
	LifecycleLowMemory LifecycleEvent = "low_memory"
)

func ParseLifecycleEvent(s string) (LifecycleEvent, error) {
	switch ev := LifecycleEvent(strings.ToLower(s)); ev {
	case LifecycleStart, LifecycleResume, LifecyclePause, LifecycleStop, LifecycleDestroy, LifecycleLowMemory:
		return ev, nil
	}
	return "", ErrUnknownLifecycle
}

// --- rendered view state, as reported by the headless views ---

type MarkerView struct {
	Tag      string
	Position LatLng
	Geohash  string
	Icon     MarkerIcon
}

type MapView struct {
	Markers          []MarkerView
	Camera           LatLng
	CameraGeohash    string
	CameraAnimated   bool
	CameraMoves      int
	MinZoom          float64
	MaxZoom          float64
	LocationTracking LocationTrackingMode
	// MyLocation is nil until the device position is known.
	MyLocation *LatLng
	Lifecycle  LifecycleEvent
}

type CarouselView struct {
	Index      int
	ListingIDs []string
}

type ListView struct {
	ListingIDs  []string
	Highlighted string
}

type ScreenView struct {
	Map        MapView
	Carousel   CarouselView
	List       ListView
	LastNotice string
	LastShare  *SharePayload
}

// SessionView - everything a client needs to redraw one screen session.
type SessionView struct {
	Snapshot  Snapshot
	SyncState SyncState
	Fetching  bool
	Screen    ScreenView
}
