package port

import (
	"context"
	"house-map-service/internal/core/domain"
)

// ListingFetcherPort performs one blocking request to the listing endpoint.
// Failures are reported as *domain.FetchError.
type ListingFetcherPort interface {
	FetchListings(ctx context.Context) ([]domain.Listing, error)
}
