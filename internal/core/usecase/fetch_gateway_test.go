package usecase

import (
	"context"
	"errors"
	"house-map-service/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitResult(t *testing.T, ch <-chan domain.FetchResult) domain.FetchResult {
	t.Helper()
	select {
	case res, ok := <-ch:
		require.True(t, ok, "channel closed without a result")
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no fetch result")
		return domain.FetchResult{}
	}
}

func TestFetchGatewayDeliversListingsOnce(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.reply(sampleListings(), nil)
	g := NewFetchGateway(fetcher)

	ch := g.FetchListings(context.Background())
	res := awaitResult(t, ch)

	require.NoError(t, res.Err)
	assert.Equal(t, sampleListings(), res.Listings)
	_, open := <-ch
	assert.False(t, open, "exactly one result, then closed")
	assert.False(t, g.InFlight())
}

func TestFetchGatewayPassesErrorThrough(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetchErr := &domain.FetchError{Kind: domain.MalformedResponse, Err: errors.New("bad json")}
	fetcher.reply(nil, fetchErr)
	g := NewFetchGateway(fetcher)

	res := awaitResult(t, g.FetchListings(context.Background()))

	kind, ok := domain.FetchErrorKindOf(res.Err)
	require.True(t, ok)
	assert.Equal(t, domain.MalformedResponse, kind)
	assert.Nil(t, res.Listings)
}

func TestFetchGatewayRejectsOverlappingCall(t *testing.T) {
	fetcher := newScriptedFetcher()
	g := NewFetchGateway(fetcher)

	first := g.FetchListings(context.Background())
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, g.InFlight())

	second := awaitResult(t, g.FetchListings(context.Background()))
	assert.ErrorIs(t, second.Err, domain.ErrFetchInFlight)
	assert.Equal(t, int32(1), fetcher.calls.Load())

	fetcher.reply(sampleListings(), nil)
	res := awaitResult(t, first)
	require.NoError(t, res.Err)
	assert.False(t, g.InFlight())

	fetcher.reply(nil, nil)
	third := awaitResult(t, g.FetchListings(context.Background()))
	assert.NoError(t, third.Err)
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestFetchGatewayCancelledContext(t *testing.T) {
	fetcher := newScriptedFetcher()
	g := NewFetchGateway(fetcher)
	ctx, cancel := context.WithCancel(context.Background())

	ch := g.FetchListings(ctx)
	cancel()

	res := awaitResult(t, ch)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, g.InFlight())
}
