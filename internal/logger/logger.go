package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// zapField accumulates typed key/value pairs for one log call.
type zapField struct {
	fields []zap.Field
}

func (f *zapField) Bool(key string, val bool) contracts.Field {
	f.fields = append(f.fields, zap.Bool(key, val))
	return f
}

func (f *zapField) Int(key string, val int) contracts.Field {
	f.fields = append(f.fields, zap.Int(key, val))
	return f
}

func (f *zapField) Float64(key string, val float64) contracts.Field {
	f.fields = append(f.fields, zap.Float64(key, val))
	return f
}

func (f *zapField) String(key string, val string) contracts.Field {
	f.fields = append(f.fields, zap.String(key, val))
	return f
}

func (f *zapField) Time(key string, val time.Time) contracts.Field {
	f.fields = append(f.fields, zap.Time(key, val))
	return f
}

func (f *zapField) Duration(key string, val time.Duration) contracts.Field {
	f.fields = append(f.fields, zap.Duration(key, val))
	return f
}

func (f *zapField) Int64(key string, val int64) contracts.Field {
	f.fields = append(f.fields, zap.Int64(key, val))
	return f
}

func (f *zapField) Error(key string, val error) contracts.Field {
	f.fields = append(f.fields, zap.NamedError(key, val))
	return f
}

func (f *zapField) Uint64(key string, val uint64) contracts.Field {
	f.fields = append(f.fields, zap.Uint64(key, val))
	return f
}

func (f *zapField) Uint8(key string, val uint8) contracts.Field {
	f.fields = append(f.fields, zap.Uint8(key, val))
	return f
}

// zapLogger adapts a zap.Logger to the contracts.Logger interface.
type zapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// NewZapLogger builds a console logger writing to stderr at info level.
// Playback timing is sensitive to stdout contention, so logs stay on stderr.
func NewZapLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	return &zapLogger{logger: zap.New(core), level: level}
}

// NewNop returns a logger that discards everything. Useful in tests.
func NewNop() contracts.Logger {
	return &zapLogger{logger: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// Field starts a new structured field chain.
func (z *zapLogger) Field() contracts.Field {
	return &zapField{}
}

// SetLevel changes the minimum level for all subsequent log calls.
func (z *zapLogger) SetLevel(level contracts.LogLevel) {
	if level >= contracts.FatalLevel {
		// zap reserves the slots between Error and Fatal for panic levels.
		z.level.SetLevel(zapcore.FatalLevel)
		return
	}
	z.level.SetLevel(zapcore.Level(level))
}

func (z *zapLogger) Info(msg string, fields ...contracts.Field) {
	z.logger.Info(msg, flatten(fields)...)
}

func (z *zapLogger) Error(msg string, fields ...contracts.Field) {
	z.logger.Error(msg, flatten(fields)...)
}

func (z *zapLogger) Debug(msg string, fields ...contracts.Field) {
	z.logger.Debug(msg, flatten(fields)...)
}

func (z *zapLogger) Warn(msg string, fields ...contracts.Field) {
	z.logger.Warn(msg, flatten(fields)...)
}

func (z *zapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.logger.Fatal(msg, flatten(fields)...)
}

func flatten(fields []contracts.Field) []zap.Field {
	var out []zap.Field
	for _, f := range fields {
		if zf, ok := f.(*zapField); ok {
			out = append(out, zf.fields...)
		}
	}
	return out
}
