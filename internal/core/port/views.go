package port

import "house-map-service/internal/core/domain"

type PageSelectedHandler func(index int)

type ItemClickHandler func(index int)

// CarouselPort - horizontally paged, one listing per page.
//
// ShowPage is a programmatic page change. If it changes the page it must
// report the change to the page-selected handler before returning, the same
// way a user swipe is reported. SubmitList resets the page without reporting.
type CarouselPort interface {
	SubmitList(listings []domain.Listing)
	CurrentIndex() int
	ShowPage(index int)
	SetOnPageSelected(h PageSelectedHandler)
	SetOnItemClick(h ItemClickHandler)
}

// ListPort - vertical list of listings.
type ListPort interface {
	SubmitList(listings []domain.Listing)
	// Highlight marks the listing with the given id; an empty id clears it.
	Highlight(id string)
	SetOnItemClick(h func(id string))
}
