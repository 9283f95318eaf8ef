package headless

import (
	"house-map-service/internal/constants"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"

	"github.com/mmcloughlin/geohash"
)

type marker struct {
	view  domain.MarkerView
	onTap port.MarkerTapHandler
}

// MapSurface is an in-memory map: it keeps the markers, the camera and the
// map settings so a remote client can redraw them. Not safe for concurrent
// use; the owning session serializes all calls.
type MapSurface struct {
	markers   []marker
	camera    domain.LatLng
	animated  bool
	moves     int
	minZoom   float64
	maxZoom   float64
	tracking  domain.LocationTrackingMode
	here      *domain.LatLng
	lifecycle domain.LifecycleEvent
}

func NewMapSurface() *MapSurface {
	return &MapSurface{tracking: domain.TrackingNone}
}

func (m *MapSurface) AddMarker(position domain.LatLng, tag string, icon domain.MarkerIcon, onTap port.MarkerTapHandler) {
	m.markers = append(m.markers, marker{
		view: domain.MarkerView{
			Tag:      tag,
			Position: position,
			Geohash:  geohash.EncodeWithPrecision(position.Lat, position.Lng, constants.MarkerGeohashPrecision),
			Icon:     icon,
		},
		onTap: onTap,
	})
}

func (m *MapSurface) RemoveAllMarkers() {
	m.markers = nil
}

func (m *MapSurface) MoveCamera(position domain.LatLng, animated bool) {
	m.camera = position
	m.animated = animated
	m.moves++
}

func (m *MapSurface) SetZoomBounds(min, max float64) {
	m.minZoom, m.maxZoom = min, max
}

func (m *MapSurface) SetLocationTracking(mode domain.LocationTrackingMode) {
	m.tracking = mode
}

func (m *MapSurface) ShowMyLocation(position domain.LatLng) {
	m.here = &position
}

func (m *MapSurface) OnLifecycle(event domain.LifecycleEvent) {
	m.lifecycle = event
}

// Tap simulates a tap on the marker with the given tag. A tag with no
// marker comes from a stale client view and is ignored.
func (m *MapSurface) Tap(tag string) error {
	for _, mk := range m.markers {
		if mk.view.Tag == tag && mk.onTap != nil {
			mk.onTap(tag)
			break
		}
	}
	return nil
}

func (m *MapSurface) View() domain.MapView {
	markers := make([]domain.MarkerView, len(m.markers))
	for i, mk := range m.markers {
		markers[i] = mk.view
	}
	return domain.MapView{
		Markers:          markers,
		Camera:           m.camera,
		CameraGeohash:    geohash.EncodeWithPrecision(m.camera.Lat, m.camera.Lng, constants.CameraGeohashPrecision),
		CameraAnimated:   m.animated,
		CameraMoves:      m.moves,
		MinZoom:          m.minZoom,
		MaxZoom:          m.maxZoom,
		LocationTracking: m.tracking,
		MyLocation:       m.myLocation(),
		Lifecycle:        m.lifecycle,
	}
}

func (m *MapSurface) myLocation() *domain.LatLng {
	if m.here == nil {
		return nil
	}
	here := *m.here
	return &here
}
