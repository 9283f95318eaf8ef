package usecases_port

import (
	"context"
	"house-map-service/internal/core/domain"

	"github.com/google/uuid"
)

// ScreenSessionsPort - what the REST layer can do with screen sessions.
type ScreenSessionsPort interface {
	Create(ctx context.Context) (uuid.UUID, error)
	View(ctx context.Context, sessionID uuid.UUID) (domain.SessionView, error)
	Close(ctx context.Context, sessionID uuid.UUID) error
	Refresh(ctx context.Context, sessionID uuid.UUID) error
	TapMarker(ctx context.Context, sessionID uuid.UUID, listingID string) error
	SwipeCarousel(ctx context.Context, sessionID uuid.UUID, index int) error
	ClickCarouselPage(ctx context.Context, sessionID uuid.UUID, index int) error
	TapListItem(ctx context.Context, sessionID uuid.UUID, listingID string) error
	ShareListing(ctx context.Context, sessionID uuid.UUID, listingID string) error
	Lifecycle(ctx context.Context, sessionID uuid.UUID, event domain.LifecycleEvent) error
}
