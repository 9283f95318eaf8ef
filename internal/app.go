package internal

import (
	"context"
	"fmt"
	"house-map-service/internal/adapters/headless"
	"house-map-service/internal/adapters/listing_api_client"
	logger_adapter "house-map-service/internal/adapters/logger"
	"house-map-service/internal/adapters/notifier"
	rabbitmq_adapter "house-map-service/internal/adapters/rabbitmq"
	"house-map-service/internal/adapters/rest"
	"house-map-service/internal/configs"
	"house-map-service/internal/constants"
	"house-map-service/internal/core/domain"
	"house-map-service/internal/core/port"
	"house-map-service/internal/core/usecase"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	sessions  *usecase.ScreenSessionsUseCase
	notifier  *notifier.SSENotifier

	connManager   *rabbitmq_adapter.ConnectionManager
	eventProducer *rabbitmq_adapter.Publisher

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// loggers
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = logger_adapter.NewFluentClient(logger_adapter.FluentConfig{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		logger:       appLogger,
		fluentClient: fluentClient,
	}

	// share target
	var shareTarget port.SharePort
	if appConfig.RabbitMQ.Enabled {
		connManager, err := rabbitmq_adapter.NewConnectionManager(appConfig.RabbitMQ.URL, baseLogger)
		if err != nil {
			appLogger.Error("Failed to create RabbitMQ connection manager", err, nil)
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		application.connManager = connManager

		eventProducer, err := rabbitmq_adapter.NewPublisher(rabbitmq_adapter.PublisherConfig{
			ExchangeName:    appConfig.RabbitMQ.Exchange,
			ExchangeType:    constants.ExchangeType,
			DurableExchange: true,
		}, connManager, baseLogger)
		if err != nil {
			connManager.Close()
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		application.eventProducer = eventProducer

		shareTarget, err = rabbitmq_adapter.NewShareEventPublisher(eventProducer)
		if err != nil {
			return nil, fmt.Errorf("failed to create share publisher: %w", err)
		}
		appLogger.Info("RabbitMQ share publisher initialized", port.Fields{"exchange": appConfig.RabbitMQ.Exchange})
	} else {
		appLogger.Info("RabbitMQ disabled, shares are only kept on the session screen", nil)
	}

	// core
	listingClient := listing_api_client.NewClient(listing_api_client.Config{
		BaseURL:      appConfig.ListingAPI.BaseURL,
		Path:         appConfig.ListingAPI.Path,
		Timeout:      appConfig.ListingAPI.Timeout,
		MaxBodyBytes: appConfig.ListingAPI.MaxBodyBytes,
		Logger:       baseLogger,
	})

	sseNotifier := notifier.NewSSENotifier(baseLogger)
	application.notifier = sseNotifier

	locationCfg := headless.LocationConfig{
		GrantOnRequest: appConfig.Location.PermissionGranted,
		Location:       appConfig.Location.Location,
	}
	newScreen := func() usecase.Screen { return headless.NewScreen(locationCfg, shareTarget) }

	sessions := usecase.NewScreenSessionsUseCase(listingClient, newScreen, sseNotifier, usecase.ScreenSessionsConfig{
		Binder: usecase.BinderConfig{
			MinZoom:       appConfig.Map.MinZoom,
			MaxZoom:       appConfig.Map.MaxZoom,
			InitialCamera: appConfig.Map.InitialCamera,
			MarkerIcon:    domain.DefaultMarkerIcon,
			ShareTemplate: appConfig.Session.ShareTemplate,
		},
		RefreshInterval: appConfig.Session.RefreshMinInterval,
		IdleTimeout:     appConfig.Session.IdleTimeout,
	}, baseLogger)
	application.sessions = sessions
	appLogger.Info("Use cases initialized", nil)

	handlers := rest.NewSessionHandlers(sessions, sseNotifier)
	application.apiServer = rest.NewServer(rest.ServerConfig{
		Port:               appConfig.Rest.Port,
		AllowedOrigins:     appConfig.Rest.AllowedOrigins,
		RateLimitPerMinute: appConfig.Rest.RateLimitPerMinute,
	}, handlers, baseLogger)

	return application, nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down.
func (a *App) Run() error {
	defer a.shutdown()

	a.logger.Info("Application is starting...", nil)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go a.sessions.RunIdleSweeper(sweepCtx, constants.IdleSweepInterval)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
		return err
	}
}

func (a *App) shutdown() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.apiServer != nil {
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
	}
	if a.sessions != nil {
		a.sessions.CloseAll(ctx)
	}
	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
