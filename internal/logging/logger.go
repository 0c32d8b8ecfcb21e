package logging

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names used in the "component" field.
const (
	CompSearch   = "search"
	CompPool     = "pool"
	CompWatcher  = "watcher"
	CompExplorer = "explorer"
	CompConfig   = "config"
	CompUI       = "ui"
	CompBus      = "bus"
)

// LogFileName is the name of the active log file inside Config.Dir.
const LogFileName = "fastexplorer.log"

// Config holds logging configuration.
type Config struct {
	// Dir is the directory for the log file. Empty together with Debug=false discards logs.
	Dir string

	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string

	// Format is "json" (default) or "text"
	Format string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Debug forces logging on; with no Dir the log goes to the working directory.
	Debug bool
}

var (
	globalLogger *slog.Logger
	globalMu     sync.RWMutex
	rotator      *lumberjack.Logger
)

// Init initializes the global logging system and redirects the standard
// library logger into it.
func Init(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 14
	}

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	if !cfg.Debug && cfg.Dir == "" {
		globalLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		log.SetOutput(io.Discard)
		return
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	_ = os.MkdirAll(dir, 0o755)

	rotator = &lumberjack.Logger{
		Filename:   filepath.Join(dir, LogFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(rotator, opts)
	} else {
		handler = slog.NewJSONHandler(rotator, opts)
	}
	globalLogger = slog.New(handler)

	log.SetFlags(0)
	log.SetOutput(&bridgeWriter{})
}

// Logger returns the global logger. Safe to call before Init (returns a discarding logger).
func Logger() *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return globalLogger
}

// ForComponent returns a sub-logger with the component field set.
// The returned logger resolves the global handler on every record, so
// package-level loggers created before Init still end up in the file.
func ForComponent(name string) *slog.Logger {
	return slog.New(&dynamicHandler{component: name})
}

type dynamicHandler struct {
	component string
	attrs     []slog.Attr
	group     string
}

func (h *dynamicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (h *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	handler := Logger().Handler().WithAttrs([]slog.Attr{slog.String("component", h.component)})
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	if h.group != "" {
		handler = handler.WithGroup(h.group)
	}
	return handler.Handle(ctx, r)
}

func (h *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	copy(merged[len(h.attrs):], attrs)
	return &dynamicHandler{component: h.component, attrs: merged, group: h.group}
}

func (h *dynamicHandler) WithGroup(name string) slog.Handler {
	return &dynamicHandler{component: h.component, attrs: h.attrs, group: name}
}

// Shutdown closes the log file and resets the global logger.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
	globalLogger = nil
	log.SetOutput(os.Stderr)
}

// bridgeWriter forwards stdlib log output into slog
type bridgeWriter struct{}

func (bridgeWriter) Write(p []byte) (int, error) {
	n := len(p)
	msg := string(p)
	for len(msg) > 0 && (msg[len(msg)-1] == '\n' || msg[len(msg)-1] == '\r') {
		msg = msg[:len(msg)-1]
	}
	if msg != "" {
		Logger().Info(msg, slog.String("component", "legacy"))
	}
	return n, nil
}
