package headless

import (
	"house-map-service/internal/core/domain"
	"slices"
)

type ListView struct {
	items       []domain.Listing
	highlighted string
	onItemClick func(id string)
}

func NewListView() *ListView { return &ListView{} }

func (l *ListView) SubmitList(listings []domain.Listing) { l.items = slices.Clone(listings) }

func (l *ListView) Highlight(id string) { l.highlighted = id }

func (l *ListView) SetOnItemClick(h func(id string)) { l.onItemClick = h }

// Tap simulates a tap on a row. Rows no longer shown are ignored.
func (l *ListView) Tap(id string) error {
	if domain.IndexOf(l.items, id) >= 0 && l.onItemClick != nil {
		l.onItemClick(id)
	}
	return nil
}

func (l *ListView) View() domain.ListView {
	return domain.ListView{ListingIDs: listingIDs(l.items), Highlighted: l.highlighted}
}

func listingIDs(listings []domain.Listing) []string {
	ids := make([]string, len(listings))
	for i, item := range listings {
		ids[i] = item.ID
	}
	return ids
}
