package log

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	ConnIDKey    ctxKey = "conn"
	RequestIDKey ctxKey = "req"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	l, err := NewLogger(false)
	if err != nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// NewLogger builds the process logger: production JSON output, or debug
// level when verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// SetLogger replaces the logger used by every function in this package.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

func L() *zap.Logger {
	return logger.Load()
}

type Loggable interface {
	Ctx() context.Context
}

func ctxFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if connID := ctx.Value(ConnIDKey); connID != nil {
		fields = append(fields, zap.Any(string(ConnIDKey), connID))
	}
	if reqID := ctx.Value(RequestIDKey); reqID != nil {
		fields = append(fields, zap.Any(string(RequestIDKey), reqID))
	}
	return fields
}

// With returns the process logger tagged with l's connection and request.
func With(l Loggable) *zap.Logger {
	return ForContext(l.Ctx())
}

func ForContext(ctx context.Context) *zap.Logger {
	return L().With(ctxFields(ctx)...)
}

func Println(l Loggable, args ...interface{}) {
	msg := fmt.Sprintln(args...)
	With(l).Info(msg[:len(msg)-1])
}

func Printf(l Loggable, format string, args ...interface{}) {
	With(l).Info(fmt.Sprintf(format, args...))
}

func Debugf(l Loggable, format string, args ...interface{}) {
	With(l).Debug(fmt.Sprintf(format, args...))
}
