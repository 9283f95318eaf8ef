package port

import "house-map-service/internal/core/domain"

// MarkerTapHandler receives the tag of the tapped marker and reports
// whether the tap was consumed.
type MarkerTapHandler func(tag string) bool

// MapSurfacePort - the map rendering collaborator.
type MapSurfacePort interface {
	AddMarker(position domain.LatLng, tag string, icon domain.MarkerIcon, onTap MarkerTapHandler)
	RemoveAllMarkers()
	MoveCamera(position domain.LatLng, animated bool)
	SetZoomBounds(min, max float64)
	SetLocationTracking(mode domain.LocationTrackingMode)
	// ShowMyLocation draws the device position behind the "my location" button.
	ShowMyLocation(position domain.LatLng)
}
