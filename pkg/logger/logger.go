package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger passed through every layer. Error and Fatal take the
// error separately so call sites never forget to attach it.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, err error, fields ...zap.Field)
	Fatal(msg string, err error, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Named(name string) Logger
	Sync() error
}

const envProduction = "production"

type Options struct {
	// Env "production" selects JSON output without stack traces. Anything else is console output.
	Env string
	// Level is a zap level name. Empty means info.
	Level string
	// Service is attached to every entry when set.
	Service string
}

type zapLogger struct {
	z *zap.Logger
}

func New(opts Options) (Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}

	cfg := configFor(opts.Env)
	cfg.Level = zap.NewAtomicLevelAt(level)

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	if opts.Service != "" {
		z = z.With(zap.String("service", opts.Service))
	}
	return &zapLogger{z: z}, nil
}

func configFor(env string) zap.Config {
	if env != envProduction {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// FromZap wraps an existing zap logger, e.g. one built on an observer core in tests.
func FromZap(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

// NewNop discards everything.
func NewNop() Logger {
	return FromZap(zap.NewNop())
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }

func (l *zapLogger) Error(msg string, err error, fields ...zap.Field) {
	l.z.Error(msg, withErr(err, fields)...)
}

func (l *zapLogger) Fatal(msg string, err error, fields ...zap.Field) {
	l.z.Fatal(msg, withErr(err, fields)...)
}

func (l *zapLogger) With(fields ...zap.Field) Logger { return &zapLogger{z: l.z.With(fields...)} }
func (l *zapLogger) Named(name string) Logger        { return &zapLogger{z: l.z.Named(name)} }
func (l *zapLogger) Sync() error                     { return l.z.Sync() }

func withErr(err error, fields []zap.Field) []zap.Field {
	if err == nil {
		return fields
	}
	return append(fields, zap.Error(err))
}
