package usecase

import (
	"context"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"sync/atomic"
)

// FetchGateway runs the blocking listing fetcher off the caller's goroutine
// and allows at most one request in flight.
type FetchGateway struct {
	fetcher  port.ListingFetcherPort
	inFlight atomic.Bool
}

func NewFetchGateway(fetcher port.ListingFetcherPort) *FetchGateway {
	return &FetchGateway{fetcher: fetcher}
}

// FetchListings starts one request and returns immediately. The channel
// receives exactly one result and is then closed. A call made while a
// request is pending resolves at once with domain.ErrFetchInFlight.
func (g *FetchGateway) FetchListings(ctx context.Context) <-chan domain.FetchResult {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "FetchListings"})
	result := make(chan domain.FetchResult, 1)

	if !g.inFlight.CompareAndSwap(false, true) {
		logger.Debug("Fetch skipped, another one is in flight", nil)
		result <- domain.FetchResult{Err: domain.ErrFetchInFlight}
		close(result)
		return result
	}

	go func() {
		defer close(result)

		logger.Debug("Fetch started", nil)
		listings, err := g.fetcher.FetchListings(ctx)

		// cleared before delivery so the receiver may start the next fetch right away
		g.inFlight.Store(false)

		if err != nil {
			logger.Warn("Fetch failed", port.Fields{"error": err.Error()})
			result <- domain.FetchResult{Err: err}
			return
		}
		logger.Info("Fetch finished", port.Fields{"listings_count": len(listings)})
		result <- domain.FetchResult{Listings: listings}
	}()

	return result
}

func (g *FetchGateway) InFlight() bool {
	return g.inFlight.Load()
}
