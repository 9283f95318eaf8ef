package store

import (
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleListings() []domain.Listing {
	return []domain.Listing{
		{ID: "a", Title: "Loft", Price: "$120", ImageURL: "http://x/1.png", Lat: 37.5, Lng: 127.0},
		{ID: "b", Title: "Studio", Price: "$90", ImageURL: "http://x/2.png", Lat: 37.51, Lng: 127.01},
		{ID: "c", Title: "Hanok", Price: "$200", ImageURL: "http://x/3.png", Lat: 37.52, Lng: 127.02},
	}
}

func newStore() *ListingStore {
	return NewListingStore(contextkeys.NoopLogger())
}

func TestNewStoreIsEmpty(t *testing.T) {
	snap := newStore().CurrentSnapshot()
	assert.Empty(t, snap.Listings)
	assert.False(t, snap.Selection.Set)
}

func TestReplaceAllWithEmptySet(t *testing.T) {
	s := newStore()
	s.ReplaceAll(sampleListings())
	require.True(t, s.Select("a", domain.OriginMap))

	s.ReplaceAll([]domain.Listing{})

	snap := s.CurrentSnapshot()
	assert.Empty(t, snap.Listings)
	assert.False(t, snap.Selection.Set)
}

func TestSelectKnownID(t *testing.T) {
	s := newStore()
	s.ReplaceAll(sampleListings())

	for _, l := range sampleListings() {
		require.True(t, s.Select(l.ID, domain.OriginCarousel))
		snap := s.CurrentSnapshot()
		assert.Equal(t, domain.Selected(l.ID), snap.Selection)
	}
}

func TestSelectUnknownIDIsNoop(t *testing.T) {
	s := newStore()
	s.ReplaceAll(sampleListings())
	require.True(t, s.Select("b", domain.OriginMap))

	calls := 0
	s.Subscribe(func(domain.StoreChange) { calls++ })

	assert.False(t, s.Select("zzz", domain.OriginMap))
	assert.False(t, s.Select("zzz", domain.OriginMap))

	assert.Equal(t, domain.Selected("b"), s.CurrentSnapshot().Selection)
	assert.Zero(t, calls)
}

func TestReplaceAllClearsSelectionEvenForSameID(t *testing.T) {
	s := newStore()
	s.ReplaceAll(sampleListings())
	require.True(t, s.Select("a", domain.OriginMap))

	s.ReplaceAll(sampleListings())

	snap := s.CurrentSnapshot()
	assert.Len(t, snap.Listings, 3)
	assert.False(t, snap.Selection.Set)
}

func TestReplaceAllNotifiesOnceWithSnapshot(t *testing.T) {
	s := newStore()
	var changes []domain.StoreChange
	s.Subscribe(func(c domain.StoreChange) { changes = append(changes, c) })

	s.ReplaceAll(sampleListings())

	require.Len(t, changes, 1)
	assert.Equal(t, domain.ChangeListingsReplaced, changes[0].Kind)
	assert.Equal(t, domain.OriginFetch, changes[0].Origin)
	assert.Equal(t, sampleListings(), changes[0].Snapshot.Listings)
	assert.False(t, changes[0].Snapshot.Selection.Set)
}

func TestSelectNotifiesWithOrigin(t *testing.T) {
	s := newStore()
	s.ReplaceAll(sampleListings())

	var changes []domain.StoreChange
	s.Subscribe(func(c domain.StoreChange) { changes = append(changes, c) })

	s.Select("c", domain.OriginList)

	require.Len(t, changes, 1)
	assert.Equal(t, domain.ChangeSelectionChanged, changes[0].Kind)
	assert.Equal(t, domain.OriginList, changes[0].Origin)
	assert.Equal(t, 2, changes[0].Snapshot.SelectedIndex())
}

func TestUnsubscribe(t *testing.T) {
	s := newStore()
	calls := 0
	unsubscribe := s.Subscribe(func(domain.StoreChange) { calls++ })

	s.ReplaceAll(sampleListings())
	unsubscribe()
	s.ReplaceAll(sampleListings())

	assert.Equal(t, 1, calls)
}

func TestSnapshotIsDetachedFromStore(t *testing.T) {
	s := newStore()
	input := sampleListings()
	s.ReplaceAll(input)

	input[0].Title = "mutated by caller"
	snap := s.CurrentSnapshot()
	snap.Listings[1].Title = "mutated by reader"

	again := s.CurrentSnapshot()
	assert.Equal(t, "Loft", again.Listings[0].Title)
	assert.Equal(t, "Studio", again.Listings[1].Title)
}

func TestSubscriberMaySelectReentrantly(t *testing.T) {
	s := newStore()
	s.Subscribe(func(c domain.StoreChange) {
		if c.Kind == domain.ChangeListingsReplaced && len(c.Snapshot.Listings) > 0 {
			s.Select(c.Snapshot.Listings[0].ID, domain.OriginMap)
		}
	})

	s.ReplaceAll(sampleListings())

	assert.Equal(t, domain.Selected("a"), s.CurrentSnapshot().Selection)
}
