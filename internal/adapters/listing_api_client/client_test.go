package listing_api_client

import (
	"context"
	"errors"
	"fmt"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loftBody = `{"items":[{"id":"a","title":"Loft","price":"$120","imgUrl":"http://x/1.png","lat":37.5,"lng":127.0}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL,
		Path:    "/v3/listings",
		Timeout: 2 * time.Second,
		Logger:  contextkeys.NoopLogger(),
	})
}

func requireKind(t *testing.T, err error, want domain.FetchErrorKind) {
	t.Helper()
	require.Error(t, err)
	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe), "expected *domain.FetchError, got %T", err)
	assert.Equal(t, want, fe.Kind)
}

func TestFetchListingsSingleItem(t *testing.T) {
	var gotPath, gotTrace string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTrace = r.Header.Get("X-Trace-ID")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, loftBody)
	})

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	listings, err := c.FetchListings(ctx)

	require.NoError(t, err)
	assert.Equal(t, []domain.Listing{
		{ID: "a", Title: "Loft", Price: "$120", ImageURL: "http://x/1.png", Lat: 37.5, Lng: 127.0},
	}, listings)
	assert.Equal(t, "/v3/listings", gotPath)
	assert.Equal(t, "trace-1", gotTrace)
}

func TestFetchListingsKeepsResponseOrder(t *testing.T) {
	const n = 25
	var sb strings.Builder
	sb.WriteString(`{"items":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id":"id-%d","title":"t%d","price":"%d","imgUrl":"","lat":%f,"lng":%f}`, n-i, i, i*10, 37.0+float64(i)/100, 127.0)
	}
	sb.WriteString(`]}`)
	body := sb.String()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, body) })

	listings, err := c.FetchListings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, n)
	for i, l := range listings {
		assert.Equal(t, fmt.Sprintf("id-%d", n-i), l.ID)
	}
}

func TestFetchListingsEmptyItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"items":[]}`) })

	listings, err := c.FetchListings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestFetchListingsNumericIDAndPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"id":42,"title":"House","price":150000,"lat":37.1,"lng":127.2}]}`)
	})

	listings, err := c.FetchListings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "42", listings[0].ID)
	assert.Equal(t, "150000", listings[0].Price)
	assert.Empty(t, listings[0].ImageURL)
}

func TestFetchListingsServerError(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.FetchListings(context.Background())

	requireKind(t, err, domain.ServerRejected)
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.Equal(t, 1, calls, "no retries")
}

func TestFetchListingsMalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"items":[`) })

	_, err := c.FetchListings(context.Background())
	requireKind(t, err, domain.MalformedResponse)
}

func TestFetchListingsSchemaViolation(t *testing.T) {
	cases := map[string]string{
		"missing items": `{"listings":[]}`,
		"missing lat":   `{"items":[{"id":"a","lng":127.0}]}`,
		"lat too big":   `{"items":[{"id":"a","lat":91,"lng":127.0}]}`,
		"lng as string": `{"items":[{"id":"a","lat":37,"lng":"127"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, body) })
			_, err := c.FetchListings(context.Background())
			requireKind(t, err, domain.MalformedResponse)
		})
	}
}

func TestFetchListingsDuplicateIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"id":"a","lat":37,"lng":127},{"id":"a","lat":38,"lng":128}]}`)
	})

	_, err := c.FetchListings(context.Background())
	requireKind(t, err, domain.MalformedResponse)
}

func TestFetchListingsBodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, loftBody) }))
	defer srv.Close()
	c := NewClient(Config{BaseURL: srv.URL, Path: "/", MaxBodyBytes: 16})

	_, err := c.FetchListings(context.Background())
	requireKind(t, err, domain.MalformedResponse)
}

func TestFetchListingsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, Path: "/", Timeout: time.Second})
	_, err := c.FetchListings(context.Background())
	requireKind(t, err, domain.TransportFailure)
}

func TestFetchListingsCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, loftBody) })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchListings(ctx)
	requireKind(t, err, domain.TransportFailure)
}

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "ListingsResponse/1.0.0", generateKeyFromPath("schemas/responses/listings-response/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("schemas/responses/v1.json"))
}

func TestEmbeddedSchemasCompile(t *testing.T) {
	schemas, err := loadSchemas()
	require.NoError(t, err)
	assert.Contains(t, schemas, "ListingsResponse/1.0.0")
}
