package store

import (
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"slices"
	"sync"
)

type subscriber struct {
	id int
	fn func(domain.StoreChange)
}

// ListingStore holds the current listing set and the selection of one
// screen session. Subscribers are called synchronously, outside the lock,
// in subscription order.
type ListingStore struct {
	mu          sync.RWMutex
	listings    []domain.Listing
	selection   domain.Selection
	subscribers []subscriber
	nextID      int

	logger port.LoggerPort
}

// NewListingStore - constructor. The store starts with an empty set and no selection.
func NewListingStore(logger port.LoggerPort) *ListingStore {
	return &ListingStore{
		listings: []domain.Listing{},
		logger:   logger.WithFields(port.Fields{"component": "ListingStore"}),
	}
}

// ReplaceAll swaps the whole listing set, clears the selection and notifies
// every subscriber exactly once.
func (s *ListingStore) ReplaceAll(listings []domain.Listing) {
	s.mu.Lock()
	s.listings = slices.Clone(listings)
	if s.listings == nil {
		s.listings = []domain.Listing{}
	}
	s.selection = domain.NoSelection()
	change := domain.StoreChange{
		Kind:     domain.ChangeListingsReplaced,
		Origin:   domain.OriginFetch,
		Snapshot: s.snapshotLocked(),
	}
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	s.logger.Debug("Listing set replaced", port.Fields{"listings_count": len(change.Snapshot.Listings)})
	notify(subs, change)
}

// Select makes id the current selection. Unknown ids are a silent no-op:
// they come from stale UI events and are not a fault.
func (s *ListingStore) Select(id string, origin domain.Origin) bool {
	s.mu.Lock()
	if domain.IndexOf(s.listings, id) < 0 {
		s.mu.Unlock()
		s.logger.Debug("Select ignored", port.Fields{
			"listing_id": id,
			"origin":     origin,
			"reason":     domain.ErrSelectionNotFound.Error(),
		})
		return false
	}
	s.selection = domain.Selected(id)
	change := domain.StoreChange{
		Kind:     domain.ChangeSelectionChanged,
		Origin:   origin,
		Snapshot: s.snapshotLocked(),
	}
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	notify(subs, change)
	return true
}

func (s *ListingStore) CurrentSnapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *ListingStore) Subscribe(fn func(domain.StoreChange)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscriber) bool { return sub.id == id })
	}
}

func (s *ListingStore) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Listings:  slices.Clone(s.listings),
		Selection: s.selection,
	}
}

func notify(subs []subscriber, change domain.StoreChange) {
	for _, sub := range subs {
		sub.fn(change)
	}
}
