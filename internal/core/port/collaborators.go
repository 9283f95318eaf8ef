package port

import (
	"context"
	"house-map-service/internal/core/domain"
)

// LocationSourcePort - device location and its permission.
type LocationSourcePort interface {
	RequestPermission() bool
	IsGranted() bool
	CurrentLocation() (domain.LatLng, bool)
}

// SharePort hands a payload to the platform share facility. Fire-and-forget
// from the caller's point of view; the error is only logged.
type SharePort interface {
	Share(ctx context.Context, payload domain.SharePayload) error
}

// NoticePort shows a short user-visible message (toast/alert).
type NoticePort interface {
	ShowError(message string)
}

// LifecycleObserver receives forwarded screen lifecycle events.
type LifecycleObserver interface {
	OnLifecycle(event domain.LifecycleEvent)
}
