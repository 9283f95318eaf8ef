package listing_api_client

import (
	"context"
	"errors"
	"fmt"
	"house-map-service/internal/constants"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

var errBodyTooLarge = errors.New("response body exceeds limit")

// Config - connection settings of the listing service.
type Config struct {
	BaseURL      string
	Path         string
	Timeout      time.Duration
	MaxBodyBytes int64
	Logger       port.LoggerPort
}

// Client fetches the full listing set with a single GET.
type Client struct {
	url          string
	maxBodyBytes int64
	http         *retryablehttp.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultListingAPIBaseURL
	}
	if cfg.Path == "" {
		cfg.Path = constants.DefaultListingAPIPath
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = constants.DefaultListingAPIMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = contextkeys.NoopLogger()
	}

	rc := retryablehttp.NewClient()
	// a failed fetch is reported to the user, who may refresh by hand
	rc.RetryMax = 0
	rc.CheckRetry = func(context.Context, *http.Response, error) (bool, error) { return false, nil }
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = newRetryLogger(cfg.Logger)

	return &Client{
		url:          strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(cfg.Path, "/"),
		maxBodyBytes: cfg.MaxBodyBytes,
		http:         rc,
	}
}

// FetchListings returns the listings in response order. Every failure is a
// *domain.FetchError.
func (c *Client) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ListingApiClient",
		"method":    "FetchListings",
	})

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.TransportFailure, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	logger.Debug("Sending request to listing service", port.Fields{"url": c.url})
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("Failed to perform request to listing service", err, nil)
		return nil, &domain.FetchError{Kind: domain.TransportFailure, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := readAllLimit(resp.Body, 512)
		err := fmt.Errorf("listing service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		logger.Error("Received error response from listing service", err, port.Fields{"status_code": resp.StatusCode})
		return nil, &domain.FetchError{Kind: domain.ServerRejected, StatusCode: resp.StatusCode, Err: err}
	}

	body, err := readAllLimit(resp.Body, c.maxBodyBytes)
	if err != nil {
		kind := domain.TransportFailure
		if errors.Is(err, errBodyTooLarge) {
			kind = domain.MalformedResponse
		}
		logger.Error("Failed to read response from listing service", err, nil)
		return nil, &domain.FetchError{Kind: kind, Err: err}
	}

	listings, err := DecodeListings(body)
	if err != nil {
		logger.Error("Failed to decode response from listing service", err, nil)
		return nil, &domain.FetchError{Kind: domain.MalformedResponse, Err: err}
	}

	logger.Info("Successfully received and decoded listings", port.Fields{"listings_count": len(listings)})
	return listings, nil
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return b[:limit], fmt.Errorf("%w of %d bytes", errBodyTooLarge, limit)
	}
	return b, nil
}
