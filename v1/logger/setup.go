package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level selects the minimum severity that gets emitted.
type Level string

const (
	Debug   Level = "debug"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum severity to emit.
	// Default: Info
	Level Level

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string
}

// Logger wraps a zap.Logger. The zero value is not usable; construct
// with New or Nop.
type Logger struct {
	zap *zap.Logger
}

// New builds a JSON logger writing to stderr with ISO8601 timestamps,
// the way all polydb components expect to log.
func New(cfg Config) (*Logger, error) {
	level := zap.InfoLevel
	switch cfg.Level {
	case Debug:
		level = zap.DebugLevel
	case Info, "":
		level = zap.InfoLevel
	case Warning:
		level = zap.WarnLevel
	case Error:
		level = zap.ErrorLevel
	default:
		return nil, fmt.Errorf("logger: unknown level %q", cfg.Level)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	z, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return &Logger{zap: z}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...)}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zap.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.zap.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.zap.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zap.Error(msg, fields...) }

// Sync flushes buffered entries. Safe to call on shutdown paths.
func (l *Logger) Sync() error { return l.zap.Sync() }
