package rest

import (
	"house-map-service/internal/core/domain"

	"github.com/google/uuid"
)

type CreateSessionResponseDTO struct {
	SessionID uuid.UUID `json:"session_id"`
}

type StatusResponseDTO struct {
	Status string `json:"status"`
}

type LatLngDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ListingDTO struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	ImageURL string  `json:"imgUrl"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type SelectionDTO struct {
	ListingID string `json:"listing_id,omitempty"`
	Index     int    `json:"index"`
}

type MarkerDTO struct {
	Tag      string    `json:"tag"`
	Position LatLngDTO `json:"position"`
	Geohash  string    `json:"geohash"`
	Icon     string    `json:"icon"`
	Tint     string    `json:"tint"`
}

type MapDTO struct {
	Markers          []MarkerDTO `json:"markers"`
	Camera           LatLngDTO   `json:"camera"`
	CameraGeohash    string      `json:"camera_geohash"`
	CameraAnimated   bool        `json:"camera_animated"`
	CameraMoves      int         `json:"camera_moves"`
	MinZoom          float64     `json:"min_zoom"`
	MaxZoom          float64     `json:"max_zoom"`
	LocationTracking string      `json:"location_tracking"`
	MyLocation       *LatLngDTO  `json:"my_location,omitempty"`
	Lifecycle        string      `json:"lifecycle,omitempty"`
}

type CarouselDTO struct {
	Index      int      `json:"index"`
	ListingIDs []string `json:"listing_ids"`
}

type ListDTO struct {
	ListingIDs  []string `json:"listing_ids"`
	Highlighted string   `json:"highlighted,omitempty"`
}

type SharePayloadDTO struct {
	ListingID string `json:"listing_id"`
	Text      string `json:"text"`
	MIMEType  string `json:"mime_type"`
}

type SessionViewResponseDTO struct {
	SessionID  uuid.UUID        `json:"session_id"`
	Listings   []ListingDTO     `json:"listings"`
	Selection  SelectionDTO     `json:"selection"`
	SyncState  string           `json:"sync_state"`
	Fetching   bool             `json:"fetching"`
	Map        MapDTO           `json:"map"`
	Carousel   CarouselDTO      `json:"carousel"`
	List       ListDTO          `json:"list"`
	LastNotice string           `json:"last_notice,omitempty"`
	LastShare  *SharePayloadDTO `json:"last_share,omitempty"`
}

func toLatLngDTO(p domain.LatLng) LatLngDTO {
	return LatLngDTO{Lat: p.Lat, Lng: p.Lng}
}

func toSessionViewDTO(id uuid.UUID, v domain.SessionView) SessionViewResponseDTO {
	listings := make([]ListingDTO, len(v.Snapshot.Listings))
	for i, l := range v.Snapshot.Listings {
		listings[i] = ListingDTO{ID: l.ID, Title: l.Title, Price: l.Price, ImageURL: l.ImageURL, Lat: l.Lat, Lng: l.Lng}
	}

	markers := make([]MarkerDTO, len(v.Screen.Map.Markers))
	for i, m := range v.Screen.Map.Markers {
		markers[i] = MarkerDTO{
			Tag:      m.Tag,
			Position: toLatLngDTO(m.Position),
			Geohash:  m.Geohash,
			Icon:     m.Icon.Name,
			Tint:     m.Icon.Tint,
		}
	}

	dto := SessionViewResponseDTO{
		SessionID: id,
		Listings:  listings,
		Selection: SelectionDTO{ListingID: v.Snapshot.Selection.ID, Index: v.Snapshot.SelectedIndex()},
		SyncState: v.SyncState.String(),
		Fetching:  v.Fetching,
		Map: MapDTO{
			Markers:          markers,
			Camera:           toLatLngDTO(v.Screen.Map.Camera),
			CameraGeohash:    v.Screen.Map.CameraGeohash,
			CameraAnimated:   v.Screen.Map.CameraAnimated,
			CameraMoves:      v.Screen.Map.CameraMoves,
			MinZoom:          v.Screen.Map.MinZoom,
			MaxZoom:          v.Screen.Map.MaxZoom,
			LocationTracking: string(v.Screen.Map.LocationTracking),
			MyLocation:       myLocationDTO(v.Screen.Map.MyLocation),
			Lifecycle:        string(v.Screen.Map.Lifecycle),
		},
		Carousel:   CarouselDTO{Index: v.Screen.Carousel.Index, ListingIDs: v.Screen.Carousel.ListingIDs},
		List:       ListDTO{ListingIDs: v.Screen.List.ListingIDs, Highlighted: v.Screen.List.Highlighted},
		LastNotice: v.Screen.LastNotice,
	}
	if s := v.Screen.LastShare; s != nil {
		dto.LastShare = &SharePayloadDTO{ListingID: s.ListingID, Text: s.Text, MIMEType: s.MIMEType}
	}
	return dto
}

func myLocationDTO(here *domain.LatLng) *LatLngDTO {
	if here == nil {
		return nil
	}
	dto := toLatLngDTO(*here)
	return &dto
}
