package constants

// Public mock endpoint serving the house list.
const (
	DefaultListingAPIBaseURL = "https://run.mocky.io"
	DefaultListingAPIPath    = "/v3/61767330-4c56-4bc0-943b-c060f6767395"

	DefaultListingAPIMaxBodyBytes = 4 << 20

	ListingsResponseSchemaKey = "ListingsResponse/1.0.0"
)
