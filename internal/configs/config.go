package configs

import (
	"fmt"
	"house-map-service/internal/constants"
	"house-map-service/internal/core/domain"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RESTConfig struct {
	Port               string
	AllowedOrigins     []string
	RateLimitPerMinute int
}

// ListingAPIConfig - the remote endpoint serving the listing set.
type ListingAPIConfig struct {
	BaseURL      string
	Path         string
	Timeout      time.Duration
	MaxBodyBytes int64
}

type MapConfig struct {
	MinZoom       float64
	MaxZoom       float64
	InitialCamera domain.LatLng
}

// LocationConfig - answers of the simulated device.
type LocationConfig struct {
	PermissionGranted bool
	Location          *domain.LatLng
}

type SessionConfig struct {
	RefreshMinInterval time.Duration
	ShareTemplate      string
	IdleTimeout        time.Duration
}

type RabbitMQConfig struct {
	Enabled  bool
	URL      string
	Exchange string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	AppName      string
	Rest         RESTConfig
	ListingAPI   ListingAPIConfig
	Map          MapConfig
	Location     LocationConfig
	Session      SessionConfig
	RabbitMQ     RabbitMQConfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
}

// LoadConfig reads the configuration from the environment. A .env file is
// loaded first when present; a missing file is not an error.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using environment only.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "house-map-service")

	cfg.Rest.Port = getEnvAsString("PORT", "8090")
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})
	cfg.Rest.RateLimitPerMinute = getEnvAsInt("HTTP_RATE_LIMIT_PER_MIN", 100)

	cfg.ListingAPI.BaseURL = getEnvAsString("LISTING_API_BASE_URL", constants.DefaultListingAPIBaseURL)
	cfg.ListingAPI.Path = getEnvAsString("LISTING_API_PATH", constants.DefaultListingAPIPath)
	cfg.ListingAPI.Timeout = getEnvAsDuration("LISTING_API_TIMEOUT", 0)
	cfg.ListingAPI.MaxBodyBytes = int64(getEnvAsInt("LISTING_API_MAX_BODY_BYTES", constants.DefaultListingAPIMaxBodyBytes))
	if cfg.ListingAPI.BaseURL == "" {
		return nil, fmt.Errorf("LISTING_API_BASE_URL must not be empty")
	}

	cfg.Map.MinZoom = getEnvAsFloat("MAP_MIN_ZOOM", constants.DefaultMinZoom)
	cfg.Map.MaxZoom = getEnvAsFloat("MAP_MAX_ZOOM", constants.DefaultMaxZoom)
	if cfg.Map.MinZoom > cfg.Map.MaxZoom {
		return nil, fmt.Errorf("MAP_MIN_ZOOM (%v) is greater than MAP_MAX_ZOOM (%v)", cfg.Map.MinZoom, cfg.Map.MaxZoom)
	}
	cfg.Map.InitialCamera = domain.LatLng{
		Lat: getEnvAsFloat("MAP_INITIAL_LAT", constants.DefaultInitialLat),
		Lng: getEnvAsFloat("MAP_INITIAL_LNG", constants.DefaultInitialLng),
	}
	if !cfg.Map.InitialCamera.Valid() {
		return nil, fmt.Errorf("MAP_INITIAL_LAT/MAP_INITIAL_LNG are out of range")
	}

	cfg.Location.PermissionGranted = getEnvAsBool("LOCATION_PERMISSION_GRANTED", false)
	_, hasLat := os.LookupEnv("LOCATION_LAT")
	_, hasLng := os.LookupEnv("LOCATION_LNG")
	if hasLat && hasLng {
		loc := domain.LatLng{Lat: getEnvAsFloat("LOCATION_LAT", 0), Lng: getEnvAsFloat("LOCATION_LNG", 0)}
		if loc.Valid() {
			cfg.Location.Location = &loc
		} else {
			log.Printf("Warning: LOCATION_LAT/LOCATION_LNG are out of range, device location disabled.\n")
		}
	}

	cfg.Session.RefreshMinInterval = getEnvAsDuration("REFRESH_MIN_INTERVAL", 2*time.Second)
	cfg.Session.ShareTemplate = getEnvAsString("SHARE_TEMPLATE", domain.DefaultShareTemplate)
	cfg.Session.IdleTimeout = getEnvAsDuration("SESSION_IDLE_TIMEOUT", constants.DefaultSessionIdleTimeout)

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	cfg.RabbitMQ.Exchange = getEnvAsString("RABBITMQ_EXCHANGE", constants.DefaultExchangeName)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt logs and falls back to the default when the value is not an int.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valFloat, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %v\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valFloat
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valDuration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valDuration
}

// getEnvAsList splits a comma separated value, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
