package port

// Fields - structured data attached to a log record.
type Fields map[string]interface{}

// LoggerPort is the logging contract the core depends on.
// It keeps the core independent from slog, fluent and friends.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error logs a message together with the error that caused it.
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields returns a logger that adds fields to every record.
	WithFields(fields Fields) LoggerPort
}
