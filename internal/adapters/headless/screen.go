package headless

import (
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"house-map-service/internal/core/usecase"
)

// Screen - the full set of headless views of one session.
type Screen struct {
	Map      *MapSurface
	Carousel *Carousel
	List     *ListView
	Location *LocationSource
	Toast    *Toast
	Share    *ShareSheet
}

func NewScreen(location LocationConfig, shareTarget port.SharePort) *Screen {
	return &Screen{
		Map:      NewMapSurface(),
		Carousel: NewCarousel(),
		List:     NewListView(),
		Location: NewLocationSource(location),
		Toast:    &Toast{},
		Share:    NewShareSheet(shareTarget),
	}
}

// Views exposes the screen as binder collaborators.
func (s *Screen) Views() usecase.Views {
	return usecase.Views{
		Map:      s.Map,
		Carousel: s.Carousel,
		List:     s.List,
		Location: s.Location,
		Notices:  s.Toast,
		Sharer:   s.Share,
	}
}

func (s *Screen) LifecycleObservers() []port.LifecycleObserver {
	return []port.LifecycleObserver{s.Map}
}

func (s *Screen) View() domain.ScreenView {
	return domain.ScreenView{
		Map:        s.Map.View(),
		Carousel:   s.Carousel.View(),
		List:       s.List.View(),
		LastNotice: s.Toast.Last(),
		LastShare:  s.Share.Last(),
	}
}

var _ usecase.Screen = (*Screen)(nil)

func (s *Screen) TapMarker(tag string) error { return s.Map.Tap(tag) }

func (s *Screen) SwipeCarousel(index int) error { return s.Carousel.Swipe(index) }

func (s *Screen) ClickCarousel(index int) error { return s.Carousel.Click(index) }

func (s *Screen) TapListItem(id string) error { return s.List.Tap(id) }
