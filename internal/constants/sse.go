package constants

const (
	EventListingsReplaced = "listings_replaced"
	EventSelectionChanged = "selection_changed"
	EventFetchFailed      = "fetch_failed"
	EventSessionClosed    = "session_closed"
)
