package headless

import (
	"fmt"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"slices"
)

// Carousel behaves like a view pager: one listing per page, the page-selected
// callback fires synchronously whenever the current page changes.
type Carousel struct {
	items          []domain.Listing
	index          int
	onPageSelected port.PageSelectedHandler
	onItemClick    port.ItemClickHandler
}

func NewCarousel() *Carousel {
	return &Carousel{index: -1}
}

// SubmitList replaces the pages and resets to the first one without reporting a page change.
func (c *Carousel) SubmitList(listings []domain.Listing) {
	c.items = slices.Clone(listings)
	if len(c.items) == 0 {
		c.index = -1
		return
	}
	c.index = 0
}

func (c *Carousel) CurrentIndex() int { return c.index }

func (c *Carousel) ShowPage(index int) {
	if index < 0 || index >= len(c.items) || index == c.index {
		return
	}
	c.index = index
	if c.onPageSelected != nil {
		c.onPageSelected(index)
	}
}

func (c *Carousel) SetOnPageSelected(h port.PageSelectedHandler) { c.onPageSelected = h }

func (c *Carousel) SetOnItemClick(h port.ItemClickHandler) { c.onItemClick = h }

// Swipe simulates the user swiping to a page.
func (c *Carousel) Swipe(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("swipe to %d of %d: %w", index, len(c.items), domain.ErrPageOutOfRange)
	}
	c.ShowPage(index)
	return nil
}

// Click simulates a click on the item of a page.
func (c *Carousel) Click(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("click on %d of %d: %w", index, len(c.items), domain.ErrPageOutOfRange)
	}
	if c.onItemClick != nil {
		c.onItemClick(index)
	}
	return nil
}

func (c *Carousel) View() domain.CarouselView {
	return domain.CarouselView{Index: c.index, ListingIDs: listingIDs(c.items)}
}
