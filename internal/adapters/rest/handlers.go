package rest

import (
	"bytes"
	"errors"
	"fmt"
	"house-map-service/internal/adapters/notifier"
	"house-map-service/internal/constants"
	"house-map-service/internal/contextkeys"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"house-map-service/internal/core/port/usecases_port"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const sseKeepAliveInterval = 15 * time.Second

var sessionClosedPrefix = []byte("event: " + constants.EventSessionClosed + "\n")

// EventStream is what the SSE handler needs from the notifier.
type EventStream interface {
	AddClient(sessionID string) notifier.ClientChannel
	RemoveClient(sessionID string, ch notifier.ClientChannel)
}

type SessionHandlers struct {
	sessions  usecases_port.ScreenSessionsPort
	events    EventStream
	keepAlive time.Duration
}

func NewSessionHandlers(sessions usecases_port.ScreenSessionsPort, events EventStream) *SessionHandlers {
	return &SessionHandlers{sessions: sessions, events: events, keepAlive: sseKeepAliveInterval}
}

// sessionID parses {sessionID}; on failure it has already written the response.
func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		WriteJSONError(w, r, http.StatusBadRequest, "Invalid session ID format")
		return uuid.Nil, false
	}
	return id, true
}

func pageIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		WriteJSONError(w, r, http.StatusBadRequest, "Page index must be an integer")
		return 0, false
	}
	return index, true
}

func (h *SessionHandlers) writeUseCaseError(w http.ResponseWriter, r *http.Request, logger port.LoggerPort, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, r, status, "Internal server error")
		return
	}
	logger.Warn("Request rejected", port.Fields{"status_code": status, "reason": err.Error()})
	WriteJSONError(w, r, status, err.Error())
}

// HandleHealth - GET /health
func (h *SessionHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, StatusResponseDTO{Status: "ok"})
}

// HandleCreateSession - POST /api/v1/sessions
func (h *SessionHandlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleCreateSession"})

	id, err := h.sessions.Create(r.Context())
	if err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusCreated, CreateSessionResponseDTO{SessionID: id})
}

// HandleGetSession - GET /api/v1/sessions/{sessionID}
func (h *SessionHandlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleGetSession"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.View(r.Context(), id)
	if err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, toSessionViewDTO(id, view))
}

// HandleDeleteSession - DELETE /api/v1/sessions/{sessionID}
func (h *SessionHandlers) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleDeleteSession"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Close(r.Context(), id); err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRefresh - POST /api/v1/sessions/{sessionID}/refresh
func (h *SessionHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleRefresh"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Refresh(r.Context(), id); err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusAccepted, StatusResponseDTO{Status: "fetch started"})
}

// HandleTapMarker - POST /api/v1/sessions/{sessionID}/markers/{listingID}/tap
func (h *SessionHandlers) HandleTapMarker(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleTapMarker"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.TapMarker(r.Context(), id, chi.URLParam(r, "listingID")); err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	h.respondWithView(w, r, logger, id)
}

// HandleSwipeCarousel - POST /api/v1/sessions/{sessionID}/carousel/pages/{index}
func (h *SessionHandlers) HandleSwipeCarousel(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleSwipeCarousel"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	index, ok := pageIndex(w, r)
	if !ok {
		return
	}

	if err := h.sessions.SwipeCarousel(r.Context(), id, index); err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	h.respondWithView(w, r, logger, id)
}

// HandleClickCarouselPage - POST /api/v1/sessions/{sessionID}/carousel/pages/{index}/click
func (h *SessionHandlers) HandleClickCarouselPage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleClickCarouselPage"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	index, ok := pageIndex(w, r)
	if !ok {
		return
	}

	if err := h.sessions.ClickCarouselPage(r.Context(), id, index); err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	h.respondWithView(w, r, logger, id)
}

// HandleTapListItem - POST /api/v1/sessions/{sessionID}/list/{listingID}/tap
func (h *SessionHandlers) HandleTapListItem(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleTapListItem"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.TapListItem(r.Context(), id, chi.URLParam(r, "listingID")); err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	h.respondWithView(w, r, logger, id)
}

// HandleShareListing - POST /api/v1/sessions/{sessionID}/listings/{listingID}/share
func (h *SessionHandlers) HandleShareListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleShareListing"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	err := h.sessions.ShareListing(r.Context(), id, chi.URLParam(r, "listingID"))
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			logger.Error("Share target failed", err, nil)
			WriteJSONError(w, r, http.StatusBadGateway, "Share target is unavailable")
			return
		}
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	h.respondWithView(w, r, logger, id)
}

// HandleLifecycle - POST /api/v1/sessions/{sessionID}/lifecycle/{event}
func (h *SessionHandlers) HandleLifecycle(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleLifecycle"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	event, err := domain.ParseLifecycleEvent(chi.URLParam(r, "event"))
	if err != nil {
		WriteJSONError(w, r, http.StatusBadRequest, fmt.Sprintf("%v: %q", err, chi.URLParam(r, "event")))
		return
	}

	if err := h.sessions.Lifecycle(r.Context(), id, event); err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	if event == domain.LifecycleDestroy {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.respondWithView(w, r, logger, id)
}

func (h *SessionHandlers) respondWithView(w http.ResponseWriter, r *http.Request, logger port.LoggerPort, id uuid.UUID) {
	view, err := h.sessions.View(r.Context(), id)
	if err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, toSessionViewDTO(id, view))
}

// HandleSessionEvents - GET /api/v1/sessions/{sessionID}/events
func (h *SessionHandlers) HandleSessionEvents(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleSessionEvents"})
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if _, err := h.sessions.View(r.Context(), id); err != nil {
		h.writeUseCaseError(w, r, logger, err)
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"session_id": id.String()})
	handlerLogger.Info("New client subscribing to session events", nil)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.events.AddClient(id.String())
	defer h.events.RemoveClient(id.String(), clientChan)

	flush := func() {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}

	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flush()

	// session_closed can be missed (closed before AddClient, full buffer),
	// so the session is also checked here and on every keep-alive tick.
	sessionGone := func() bool {
		_, err := h.sessions.View(r.Context(), id)
		return errors.Is(err, domain.ErrSessionNotFound)
	}
	endStream := func() {
		if frame, err := notifier.FormatEvent(constants.EventSessionClosed, struct{}{}); err == nil {
			w.Write(frame)
			flush()
		}
		handlerLogger.Info("Session is gone, ending SSE stream", nil)
	}
	if sessionGone() {
		endStream()
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case frame := <-clientChan:
			if _, err := w.Write(frame); err != nil {
				handlerLogger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flush()
			if bytes.HasPrefix(frame, sessionClosedPrefix) {
				handlerLogger.Info("Session closed, ending SSE stream", nil)
				return
			}
		case <-ticker.C:
			if sessionGone() {
				endStream()
				return
			}
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flush()
		case <-r.Context().Done():
			handlerLogger.Info("SSE client disconnected", nil)
			return
		}
	}
}

// HandleNotFound - JSON 404 for unknown routes.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSONError(w, r, http.StatusNotFound, "Route not found")
}
