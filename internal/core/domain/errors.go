package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSelectionNotFound = errors.New("selection not found in current listing set")
	ErrListingNotFound   = errors.New("listing not found")
	ErrFetchInFlight     = errors.New("a listing fetch is already in flight")
	ErrRefreshThrottled  = errors.New("refresh requested too often")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session is closed")
	ErrPageOutOfRange    = errors.New("carousel page out of range")
	ErrUnknownLifecycle  = errors.New("unknown lifecycle event")
)

// FetchErrorKind - classification of a failed listing fetch.
type FetchErrorKind string

const (
	TransportFailure  FetchErrorKind = "transport_failure"
	ServerRejected    FetchErrorKind = "server_rejected"
	MalformedResponse FetchErrorKind = "malformed_response"
)

// FetchError is what the fetch gateway reports on any failed invocation.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int // set for ServerRejected only
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchErrorKindOf returns the kind of a wrapped FetchError, if any.
func FetchErrorKindOf(err error) (FetchErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}
