package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogFile overrides the diagnostic log path. "off" disables the file.
const EnvLogFile = "SLIM_LOG_FILE"

// fileLevel is the floor for the diagnostic log file. Relocations move user
// data, so the file keeps debug detail even when the console is quiet.
const fileLevel = zerolog.DebugLevel

// SetupLogger configures the global logger based on verbosity level.
// The console (stderr) gets what -v asks for; the diagnostic log file
// always records debug and above.
func SetupLogger(verbosity int) {
	setupLogger(verbosity, os.Stderr)
}

func setupLogger(verbosity int, console io.Writer) string {
	consoleLevel := levelFor(verbosity)

	// Pretty console output, plain when it is not a terminal
	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    !colorEnabled(console),
	}
	writers := []io.Writer{filtered(consoleWriter, consoleLevel)}
	globalLevel := consoleLevel

	// Set up file logging unless disabled
	logFile := logFilePath()
	var fileErr error
	if logFile != "" {
		var handle *os.File
		handle, fileErr = setupLogFile(logFile)
		if fileErr == nil {
			writers = append(writers, filtered(handle, fileLevel))
			globalLevel = min(consoleLevel, fileLevel)
		}
	}

	// Events are filtered per writer, so the global level is the lowest one
	zerolog.SetGlobalLevel(globalLevel)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	// If we couldn't create the log file, log the error now with the new logger
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logFile).Msg("Failed to create log file, logging to console only")
	}

	// Add caller information for debug and trace levels
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().
		Int("verbosity", verbosity).
		Str("consoleLevel", consoleLevel.String()).
		Str("logFile", logFile).
		Msg("Logger initialized")
	return logFile
}

func levelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

func filtered(w io.Writer, level zerolog.Level) io.Writer {
	return &zerolog.FilteredLevelWriter{Writer: zerolog.LevelWriterAdapter{Writer: w}, Level: level}
}

// colorEnabled honours NO_COLOR and only colours real terminals
func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// logFilePath returns SLIM_LOG_FILE when set, "" when it is "off", and the
// state dir log otherwise
func logFilePath() string {
	switch v := strings.TrimSpace(os.Getenv(EnvLogFile)); {
	case strings.EqualFold(v, "off"):
		return ""
	case v != "":
		return v
	}
	return paths.LogFilePath()
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// setupLogFile creates the log file and its parent directories
func setupLogFile(logPath string) (*os.File, error) {
	// Create parent directories
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Append, so earlier runs stay available for diagnosis
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, nil
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
