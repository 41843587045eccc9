package contracts

import "time"

// LogLevel represents the severity level for logging. The numbering follows
// zap's convention so that the zero value selects InfoLevel.
type LogLevel int8

const (
	// DebugLevel indicates verbose messages useful when troubleshooting playback timing.
	DebugLevel LogLevel = iota - 1
	// InfoLevel indicates informational messages that highlight the progress of the application.
	InfoLevel
	// WarnLevel indicates potentially harmful situations that should be monitored.
	WarnLevel
	// ErrorLevel indicates serious issues that need attention.
	ErrorLevel
	// FatalLevel indicates severe errors after which the application aborts.
	FatalLevel
)

// Field represents one structured log field under construction.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	Float64(key string, val float64) Field
	String(key string, val string) Field
	Time(key string, val time.Time) Field
	Duration(key string, val time.Duration) Field
	Int64(key string, val int64) Field
	Error(key string, val error) Field
	Uint64(key string, val uint64) Field
	Uint8(key string, val uint8) Field
}

// Logger provides leveled, structured logging. Implementations must be safe
// for concurrent use: the playback goroutine logs dispatch progress while a
// signal handler may log a cancellation.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Field() Field

	SetLevel(level LogLevel)
}
