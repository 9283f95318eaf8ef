package usecases_port

import (
	"context"
	"house-map-service/internal/core/domain"
)

// FetchGatewayPort - asynchronous, single-shot listing fetch.
type FetchGatewayPort interface {
	// FetchListings never blocks. The channel yields exactly one result and is closed.
	FetchListings(ctx context.Context) <-chan domain.FetchResult
	InFlight() bool
}
