package usecase_test

import (
	"context"
	"fmt"
	"house-map-service/internal/adapters/headless"
	"house-map-service/internal/adapters/listing_api_client"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/usecase"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	twoListings = `{"items":[` +
		`{"id":"a","title":"Loft","price":"$120","imgUrl":"http://x/1.png","lat":37.5,"lng":127.0},` +
		`{"id":"b","title":"Studio","price":"$90","imgUrl":"http://x/2.png","lat":37.51,"lng":127.01}]}`
	oneListing = `{"items":[{"id":"c","title":"Hanok","price":"$200","imgUrl":"http://x/3.png","lat":37.52,"lng":127.02}]}`
)

// listingServer answers {a,b}, then a 500, then {c} for every later call.
func listingServer(t *testing.T) string {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			fmt.Fprint(w, twoListings)
		case 2:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			fmt.Fprint(w, oneListing)
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestTapsOnReplacedListingsAreIgnored(t *testing.T) {
	client := listing_api_client.NewClient(listing_api_client.Config{
		BaseURL: listingServer(t),
		Path:    "/listings",
		Timeout: 2 * time.Second,
		Logger:  contextkeys.NoopLogger(),
	})
	uc := usecase.NewScreenSessionsUseCase(
		client,
		func() usecase.Screen { return headless.NewScreen(headless.LocationConfig{}, nil) },
		nil,
		usecase.ScreenSessionsConfig{Binder: usecase.BinderConfig{MinZoom: 7, MaxZoom: 19}},
		contextkeys.NoopLogger(),
	)
	defer uc.CloseAll(context.Background())
	ctx := context.Background()

	id, err := uc.Create(ctx)
	require.NoError(t, err)
	view := func() domain.SessionView {
		v, err := uc.View(ctx, id)
		require.NoError(t, err)
		return v
	}
	require.Eventually(t, func() bool {
		v, err := uc.View(ctx, id)
		return err == nil && len(v.Snapshot.Listings) == 2
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, uc.TapMarker(ctx, id, "b"))
	v := view()
	assert.Equal(t, 1, v.Screen.Carousel.Index)
	assert.Equal(t, domain.LatLng{Lat: 37.51, Lng: 127.01}, v.Screen.Map.Camera)

	require.NoError(t, uc.Refresh(ctx, id))
	require.Eventually(t, func() bool {
		v, err := uc.View(ctx, id)
		return err == nil && v.Screen.LastNotice != ""
	}, 2*time.Second, 5*time.Millisecond)
	v = view()
	assert.Len(t, v.Snapshot.Listings, 2)
	assert.Equal(t, domain.Selected("b"), v.Snapshot.Selection)

	require.NoError(t, uc.Refresh(ctx, id))
	require.Eventually(t, func() bool {
		v, err := uc.View(ctx, id)
		return err == nil && len(v.Snapshot.Listings) == 1 && v.Snapshot.Listings[0].ID == "c"
	}, 2*time.Second, 5*time.Millisecond)

	assert.NoError(t, uc.TapMarker(ctx, id, "a"))
	assert.NoError(t, uc.TapListItem(ctx, id, "a"))

	v = view()
	assert.False(t, v.Snapshot.Selection.Set)
	assert.Equal(t, 0, v.Screen.Carousel.Index)
	assert.Empty(t, v.Screen.List.Highlighted)
}
