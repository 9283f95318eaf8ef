package listing_api_client

import (
	"fmt"
	"house-map-service/internal/core/port"

	"github.com/hashicorp/go-retryablehttp"
)

// retryLogger adapts port.LoggerPort to retryablehttp.LeveledLogger.
type retryLogger struct {
	logger port.LoggerPort
}

var _ retryablehttp.LeveledLogger = (*retryLogger)(nil)

func newRetryLogger(logger port.LoggerPort) *retryLogger {
	return &retryLogger{logger: logger.WithFields(port.Fields{"component": "RetryableHTTP"})}
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, nil, toFields(keysAndValues))
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) port.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(port.Fields, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields[key] = keysAndValues[i+1]
		} else {
			fields[key] = "(missing)"
		}
	}
	return fields
}
