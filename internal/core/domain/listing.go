package domain

import "fmt"

// LatLng - a point on the map, in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Valid reports whether the point lies within [-90,90] x [-180,180].
func (p LatLng) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Listing - one house listing as returned by the listing endpoint.
// Values are never mutated after decoding.
type Listing struct {
	ID       string
	Title    string
	Price    string // kept in the display form the endpoint sends
	ImageURL string
	Lat      float64
	Lng      float64
}

func (l Listing) Position() LatLng {
	return LatLng{Lat: l.Lat, Lng: l.Lng}
}

// Validate checks what the map and the selection logic rely on.
func (l Listing) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("listing has an empty id")
	}
	if !l.Position().Valid() {
		return fmt.Errorf("listing %s has coordinates out of range (%f, %f)", l.ID, l.Lat, l.Lng)
	}
	return nil
}

// IndexOf returns the position of the listing with the given id, or -1.
func IndexOf(listings []Listing, id string) int {
	for i, l := range listings {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// ValidateSet checks every listing and the uniqueness of ids inside one fetched set.
func ValidateSet(listings []Listing) error {
	seen := make(map[string]struct{}, len(listings))
	for i, l := range listings {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("item %d: duplicate listing id %q", i, l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}
