package port

import "house-map-service/internal/core/domain"

// ListingStorePort - the listing store as seen by the binder and the session.
type ListingStorePort interface {
	ReplaceAll(listings []domain.Listing)
	// Select reports false (and changes nothing) when id is not in the current set.
	Select(id string, origin domain.Origin) bool
	CurrentSnapshot() domain.Snapshot
	// Subscribe registers fn for every change and returns the matching unsubscribe.
	Subscribe(fn func(domain.StoreChange)) (unsubscribe func())
}
