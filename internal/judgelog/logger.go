// Package judgelog provides the structured, context-aware logger used across
// the judge pipeline.
package judgelog

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *Logger

// Logger wraps zap with judge-pipeline context extraction.
type Logger struct {
	zap *zap.Logger
}

// Config holds logger configuration.
type Config struct {
	Level      string `yaml:"level"`      // debug, info, warn, error
	Format     string `yaml:"format"`     // json, console
	OutputPath string `yaml:"outputPath"` // file path or "stdout"
}

// Init initializes the global logger.
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	global = l
	return nil
}

// New creates a standalone logger instance.
func New(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     rfc3339TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = "stdout"
	}
	var writeSyncer zapcore.WriteSyncer
	if outputPath == "stdout" {
		writeSyncer = zapcore.AddSync(os.Stdout)
	} else {
		file, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writeSyncer = zapcore.AddSync(file)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	zapLogger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{zap: zapLogger}, nil
}

func rfc3339TimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.RFC3339))
}

// WithChalID returns a context carrying the submission's chal_id for log enrichment.
func WithChalID(ctx context.Context, chalID int64) context.Context {
	return context.WithValue(ctx, chalIDKey, chalID)
}

// WithGroupIndex returns a context carrying a test-group index for log enrichment.
func WithGroupIndex(ctx context.Context, idx int) context.Context {
	return context.WithValue(ctx, groupIdxKey, idx)
}

// WithRunID returns a context carrying a per-judge-run correlation id for
// log enrichment, so every line emitted while judging one submission can be
// grepped together even across its fanned-out test-group goroutines.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

func fieldsFromContext(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if ctx == nil {
		return fields
	}
	if chalID, ok := ctx.Value(chalIDKey).(int64); ok {
		fields = append(fields, zap.Int64("chal_id", chalID))
	}
	if idx, ok := ctx.Value(groupIdxKey).(int); ok {
		fields = append(fields, zap.Int("group_idx", idx))
	}
	if runID, ok := ctx.Value(runIDKey).(string); ok {
		fields = append(fields, zap.String("run_id", runID))
	}
	return fields
}

func (l *Logger) withContext(ctx context.Context) *zap.Logger {
	return l.zap.With(fieldsFromContext(ctx)...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Debug logs a debug message with context-derived fields.
func Debug(ctx context.Context, msg string, fields ...zap.Field) { logAt(ctx, msg, fields, (*zap.Logger).Debug) }

// Info logs an info message with context-derived fields.
func Info(ctx context.Context, msg string, fields ...zap.Field) { logAt(ctx, msg, fields, (*zap.Logger).Info) }

// Warn logs a warning message with context-derived fields.
func Warn(ctx context.Context, msg string, fields ...zap.Field) { logAt(ctx, msg, fields, (*zap.Logger).Warn) }

// Error logs an error message with context-derived fields.
func Error(ctx context.Context, msg string, fields ...zap.Field) { logAt(ctx, msg, fields, (*zap.Logger).Error) }

func logAt(ctx context.Context, msg string, fields []zap.Field, fn func(*zap.Logger, string, ...zap.Field)) {
	if global == nil {
		return
	}
	fn(global.withContext(ctx), msg, fields...)
}

// Sync flushes the global logger.
func Sync() error {
	if global == nil {
		return nil
	}
	return global.Sync()
}
