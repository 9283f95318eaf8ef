package constants

const (
	DefaultExchangeName = "house_map_exchange"
	ExchangeType        = "topic"

	RoutingKeyListingShared = "listing.shared"
)
