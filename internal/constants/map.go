package constants

const (
	DefaultMinZoom = 7.0
	DefaultMaxZoom = 19.0

	// Yeoksam station
	DefaultInitialLat = 37.500723072486
	DefaultInitialLng = 127.03680544372

	MarkerGeohashPrecision = 7 // ~150m cell
	CameraGeohashPrecision = 5
)
