package headless

import "house-map-service/internal/core/domain"

// LocationConfig - what the simulated device answers.
type LocationConfig struct {
	// GrantOnRequest is the user's answer to the permission prompt.
	GrantOnRequest bool
	Location       *domain.LatLng
}

type LocationSource struct {
	cfg      LocationConfig
	granted  bool
	requests int
}

func NewLocationSource(cfg LocationConfig) *LocationSource {
	return &LocationSource{cfg: cfg}
}

func (s *LocationSource) RequestPermission() bool {
	s.requests++
	s.granted = s.cfg.GrantOnRequest
	return s.granted
}

func (s *LocationSource) IsGranted() bool { return s.granted }

func (s *LocationSource) CurrentLocation() (domain.LatLng, bool) {
	if !s.granted || s.cfg.Location == nil {
		return domain.LatLng{}, false
	}
	return *s.cfg.Location, true
}
