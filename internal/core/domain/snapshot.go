package domain

// Selection - at most one selected listing id.
type Selection struct {
	ID  string
	Set bool
}

func NoSelection() Selection { return Selection{} }

func Selected(id string) Selection { return Selection{ID: id, Set: true} }

// Snapshot - the (ListingSet, SelectionState) pair handed out by the store.
// Callers must treat it as read-only.
type Snapshot struct {
	Listings  []Listing
	Selection Selection
}

// SelectedIndex returns the carousel position of the selected listing, or -1.
func (s Snapshot) SelectedIndex() int {
	if !s.Selection.Set {
		return -1
	}
	return IndexOf(s.Listings, s.Selection.ID)
}

func (s Snapshot) SelectedListing() (Listing, bool) {
	idx := s.SelectedIndex()
	if idx < 0 {
		return Listing{}, false
	}
	return s.Listings[idx], true
}

func (s Snapshot) ListingByID(id string) (Listing, bool) {
	idx := IndexOf(s.Listings, id)
	if idx < 0 {
		return Listing{}, false
	}
	return s.Listings[idx], true
}

// ChangeKind - what a store notification is about.
type ChangeKind string

const (
	ChangeListingsReplaced ChangeKind = "listings_replaced"
	ChangeSelectionChanged ChangeKind = "selection_changed"
)

// Origin tags the view a selection change came from, so the binder
// can suppress the echo back into that same view.
type Origin string

const (
	OriginFetch    Origin = "fetch"
	OriginMap      Origin = "map"
	OriginCarousel Origin = "carousel"
	OriginList     Origin = "list"
)

// StoreChange - one notification delivered to store subscribers.
type StoreChange struct {
	Kind     ChangeKind
	Origin   Origin
	Snapshot Snapshot
}

// FetchResult - the single completion of one fetch invocation.
type FetchResult struct {
	Listings []Listing
	Err      error
}
