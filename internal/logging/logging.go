package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	initOnce sync.Once
	logger   *zap.Logger
	exitFunc = os.Exit
)

// L returns the shared application logger, initializing it on first use.
func L() *zap.Logger {
	initOnce.Do(func() {
		logger = newLogger()
	})
	return logger
}

func newLogger() *zap.Logger {
	level := parseLevel(os.Getenv("HIREFUNNEL_LOG_LEVEL"))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(os.Getenv("HIREFUNNEL_LOG_FORMAT")) {
	case "json", "structured":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		// Console output goes to stderr so `calc --format json` stays clean on stdout.
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller())
}

func parseLevel(value string) zapcore.Level {
	switch strings.ToLower(value) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// With returns a child logger with additional fields.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Fatal logs the message at error level and exits with status 1.
func Fatal(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
	_ = L().Sync()
	exitFunc(1)
}
