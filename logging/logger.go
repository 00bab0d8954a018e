package logging

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	current   Config
)

// SetConfig sets the configuration used by loggers created afterwards and
// reconfigures the ones that already exist.
func SetConfig(cfg Config) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	current = cfg
	for _, entry := range loggers {
		configure(entry.Logger, cfg)
	}
}

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	configure(logger, current)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

func configure(logger *logrus.Logger, cfg Config) {
	// Configure Level
	levelStr := "info" // Default level
	if os.Getenv("KVSTORE_LOG_LEVEL") != "" {
		levelStr = os.Getenv("KVSTORE_LOG_LEVEL")
	} else if cfg.Level != "" {
		levelStr = cfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	logger.SetReportCaller(os.Getenv("KVSTORE_LOG_CALLER") == "true" || cfg.ReportCaller)

	// Configure Formatter
	switch cfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: cfg.Format})
	}

	// Determine if we should write to stderr
	shouldLogToStderr := false
	stderrMode := "auto"
	if cfg.Format.StructuredToStderr != "" {
		stderrMode = cfg.Format.StructuredToStderr
	}

	switch stderrMode {
	case "always":
		shouldLogToStderr = true
	case "never":
		shouldLogToStderr = false
	case "auto":
		// Log to stderr if debug is enabled, or if not in an interactive terminal
		isDebug := os.Getenv("KVSTORE_DEBUG") == "1" || logger.GetLevel() >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		if isDebug || !isInteractive {
			shouldLogToStderr = true
		}
	}

	if shouldLogToStderr {
		logger.SetOutput(Output())
	} else {
		logger.SetOutput(io.Discard)
	}
}
