package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultService names loggers that were not given a service explicitly.
const defaultService = "dataprotection"

// Logger is a zerolog-backed structured logger bound to a service name.
// Derived loggers share the service and inherit the parent's sink and level.
type Logger struct {
	logger  zerolog.Logger
	service string
}

// contextKey keeps context lookups from colliding with other packages.
type contextKey string

// Init builds the global logger from cfg and points zerolog's own global
// logger at the same sink so third-party zerolog output matches ours.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	globalLogger = New(&cfg, cfg.ServiceName)

	if level, err := zerolog.ParseLevel(cfg.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Logger = globalLogger.logger
}

// New builds a logger from cfg. An unknown level falls back to info, and
// the level applies to this logger only.
func New(cfg *Config, serviceName string) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zc := zerolog.New(sink(cfg)).Level(level).With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}

	return &Logger{logger: zc.Logger(), service: serviceName}
}

// NewDefault builds a console logger at info level.
func NewDefault(serviceName string) *Logger {
	return New(&Config{
		Level:     "info",
		Format:    "console",
		Output:    "stdout",
		Timestamp: true,
	}, serviceName)
}

// NewFromEnv builds a logger from LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT,
// LOG_NO_COLOR and LOG_TIMESTAMP, for processes configured through the
// environment rather than a config file.
func NewFromEnv(serviceName string) *Logger {
	return New(&Config{
		Level:     envOr("LOG_LEVEL", "info"),
		Format:    envOr("LOG_FORMAT", "console"),
		Output:    envOr("LOG_OUTPUT", "stdout"),
		NoColor:   envBool("LOG_NO_COLOR", false),
		Timestamp: envBool("LOG_TIMESTAMP", true),
	}, serviceName)
}

// WithContext copies trace_id, span_id and request_id from ctx into the
// logger when present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.logger.With()
	for _, key := range []string{FieldTraceID, FieldSpanID, FieldRequestID} {
		if v := ctx.Value(contextKey(key)); v != nil {
			zc = zc.Str(key, fmt.Sprint(v))
		}
	}
	return &Logger{logger: zc.Logger(), service: l.service}
}

// WithComponent tags every event with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		logger:  l.logger.With().Str(FieldComponent, name).Logger(),
		service: l.service,
	}
}

// WithFields attaches fields to every event logged through the result.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		logger:  l.logger.With().Fields(fields).Logger(),
		service: l.service,
	}
}

// WithError attaches err to every event logged through the result.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		logger:  l.logger.With().Err(err).Logger(),
		service: l.service,
	}
}

// GetLogger exposes the underlying zerolog.Logger for callers that need
// the raw API.
func (l *Logger) GetLogger() zerolog.Logger {
	return l.logger
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Error(), msg, fields)
}

// Fatal logs the message and terminates the process.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Fatal(), msg, fields)
}

// globalLogger backs the package-level logging functions.
var globalLogger *Logger

// SetGlobalLogger replaces the logger behind the package-level functions.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the package-level logger, building a default one
// on first use.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault(defaultService)
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Error(msg, fields...) }
func Fatal(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Fatal(msg, fields...) }

// WithContext derives from the package-level logger.
func WithContext(ctx context.Context) *Logger { return GetGlobalLogger().WithContext(ctx) }

// WithComponent derives from the package-level logger.
func WithComponent(name string) *Logger { return GetGlobalLogger().WithComponent(name) }

func emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, m := range fields {
		event = event.Fields(m)
	}
	event.Msg(msg)
}

// consoleLevelTags maps zerolog level names to the compact tags used in
// console output.
var consoleLevelTags = map[string]string{
	"trace": "TRC",
	"debug": "DBG",
	"info":  "INF",
	"warn":  "WRN",
	"error": "ERR",
	"fatal": "FTL",
	"panic": "PNC",
}

func sink(cfg *Config) io.Writer {
	out := writerFor(cfg.Output)
	switch strings.ToLower(cfg.Format) {
	case "console", "text", "pretty":
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
			FormatLevel: func(i interface{}) string {
				name := fmt.Sprint(i)
				tag, ok := consoleLevelTags[name]
				if !ok {
					tag = strings.ToUpper(name)
				}
				return "[" + tag + "]"
			},
		}
	default:
		return out
	}
}

func writerFor(name string) io.Writer {
	if strings.EqualFold(name, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
