package logger

import (
	"io"
	"os"
	"strings"

	"github.com/0x6666/ddns-client/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logging surface shared by the app packages.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// Init initializes a zap SugaredLogger using settings from config.
func Init(cfg *config.Config) (Logger, error) {
	var level zapcore.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	core := newCore(output(cfg), level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("app", cfg.AppName), zap.String("env", cfg.Env))
	sugar := logger.Sugar()
	S = sugar
	return &zapLogger{l: logger}, nil
}

// New wraps an existing zap logger.
func New(l *zap.Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return &zapLogger{l: l}
}

func newCore(w io.Writer, level zapcore.Level) zapcore.Core {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(w),
		level,
	)
}

// output picks stdout, or a size-rotated file when log_file is set.
func output(cfg *config.Config) io.Writer {
	path := strings.TrimSpace(cfg.LogFile)
	if path == "" {
		return zapcore.Lock(os.Stdout)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   true,
	}
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) InfoObj(msg, key string, obj interface{})  { z.l.Info(msg, zap.Any(key, obj)) }
func (z *zapLogger) DebugObj(msg, key string, obj interface{}) { z.l.Debug(msg, zap.Any(key, obj)) }
func (z *zapLogger) WarnObj(msg, key string, obj interface{})  { z.l.Warn(msg, zap.Any(key, obj)) }
func (z *zapLogger) ErrorObj(msg, key string, obj interface{}) { z.l.Error(msg, zap.Any(key, obj)) }

// Minimal object logging helpers -------------------------------------------------
// These are tiny wrappers that log the given object as a structured field named
// `key` and do not attempt to parse arbitrary kv arrays.
func InfoObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Info(msg, zap.Any(key, obj))
}

func DebugObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Debug(msg, zap.Any(key, obj))
}

func WarnObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Warn(msg, zap.Any(key, obj))
}

func ErrorObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Error(msg, zap.Any(key, obj))
}
