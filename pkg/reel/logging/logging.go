// Package logging provides component-scoped structured logging for the
// reel scanner, backed by charmbracelet/log.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logger := logging.Get("scanner")
//	logger.Info("scan started", "root", root)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned when an unknown log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// parseLevel maps a level string to a charmbracelet/log level.
func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default log level (debug, info, warn, error).
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	Path string

	// Console mirrors log output to stderr when true.
	Console bool

	// Components maps component names to level overrides.
	Components map[string]string
}

// state holds the shared logging state behind Init/Get/Close.
type state struct {
	mu          sync.Mutex
	initialized bool
	file        *os.File
	writer      io.Writer
	level       log.Level
	components  map[string]log.Level
	loggers     map[string]*log.Logger
}

var global = &state{
	components: make(map[string]log.Level),
	loggers:    make(map[string]*log.Logger),
}

// Init opens the log file and configures levels. It must be called before
// logging output is wanted; loggers obtained earlier write to io.Discard
// until Init runs.
func Init(cfg Config) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	global.level = level

	global.components = make(map[string]log.Level)
	for comp, lvl := range cfg.Components {
		parsed, err := parseLevel(lvl)
		if err != nil {
			return fmt.Errorf("component %s: %w", comp, err)
		}
		global.components[comp] = parsed
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	if global.file != nil {
		_ = global.file.Close()
	}
	global.file = file
	global.writer = file
	if cfg.Console {
		global.writer = io.MultiWriter(file, os.Stderr)
	}
	global.initialized = true

	// Rebind existing loggers in place so package-level logger variables
	// captured before Init pick up the real writer and levels.
	for component, logger := range global.loggers {
		lvl := global.level
		if override, ok := global.components[component]; ok {
			lvl = override
		}
		logger.SetOutput(global.writer)
		logger.SetLevel(lvl)
	}

	return nil
}

// Get returns the logger for a component, creating it on first use.
func Get(component string) *log.Logger {
	global.mu.Lock()
	defer global.mu.Unlock()

	if logger, ok := global.loggers[component]; ok {
		return logger
	}
	logger := newLogger(component)
	global.loggers[component] = logger
	return logger
}

// newLogger builds a component logger. Caller holds global.mu.
func newLogger(component string) *log.Logger {
	level := global.level
	if override, ok := global.components[component]; ok {
		level = override
	}

	writer := global.writer
	if !global.initialized {
		writer = io.Discard
	}

	return log.NewWithOptions(writer, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
	})
}

// Close flushes and closes the log file.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.initialized {
		return nil
	}
	global.initialized = false
	for _, logger := range global.loggers {
		logger.SetOutput(io.Discard)
	}

	if global.file != nil {
		if err := global.file.Close(); err != nil {
			return fmt.Errorf("closing log file: %w", err)
		}
		global.file = nil
	}
	return nil
}

// DefaultLogPath returns the default log file location under XDG state.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "reel", "reelscan.log")
}
