package main

import (
	"io"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	nopLogger = zap.NewNop()
	logger    atomic.Pointer[zap.Logger]
)

// Logger returns the tool's logger. It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}

	return nopLogger
}

// SetLogger replaces the tool's logger and returns the previous one. A nil logger
// restores the no-op default.
func SetLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		l = nopLogger
	}
	if prev := logger.Swap(l); prev != nil {
		return prev
	}

	return nopLogger
}

// newVerboseLogger returns a debug level console logger writing to w.
func newVerboseLogger(w io.Writer) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zap.DebugLevel)

	return zap.New(core)
}
