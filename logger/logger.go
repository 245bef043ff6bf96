// Package logger is a file-backed structured logger for the TUI. Nothing
// may ever be written to the terminal while the program owns it, so the
// default logger discards everything until SetFile points it at a file.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	log   = zap.NewNop()
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// SetFile routes all subsequent log output to the file at path, creating
// or appending as needed.
func SetFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(f)),
		level,
	)

	mu.Lock()
	log = zap.New(core)
	mu.Unlock()
	return nil
}

// SetDebug lowers the minimum level to debug.
func SetDebug(on bool) {
	if on {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Sync flushes buffered entries. Called once at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = log.Sync()
}

func Debug(msg string, fields map[string]any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug(msg, toFields(fields)...)
}

func Info(msg string, fields map[string]any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info(msg, toFields(fields)...)
}

func Error(msg string, fields map[string]any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error(msg, toFields(fields)...)
}

func toFields(m map[string]any) []zap.Field {
	if len(m) == 0 {
		return nil
	}
	fields := make([]zap.Field, 0, len(m))
	for k, v := range m {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}
