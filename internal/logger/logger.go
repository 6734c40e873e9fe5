// Package logger is the process-wide structured logger used by the CLI and the
// content-access packages. It wraps log/slog with a text or JSON handler and an
// optional rotating log file.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/klutchshots/klutch/pkg/fsutil"
)

// OutputFormat selects the slog handler.
type OutputFormat string

// Supported output formats.
const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Rotation defaults for the log file sink.
const (
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
)

var (
	// testOutput is used to capture log output during tests
	testOutput   io.Writer
	testOutputMu sync.Mutex
)

// Fields is a type alias for log fields to make the API cleaner
type Fields map[string]interface{}

var (
	logger       *slog.Logger
	currentLevel = new(slog.LevelVar)
	currentFmt   = FormatText
	fileSink     *lumberjack.Logger
	stateMu      sync.Mutex
)

// SetTestOutput sets the output writer for testing purposes
func SetTestOutput(w io.Writer) {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = w
}

// UnsetTestOutput resets the test output to nil
func UnsetTestOutput() {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = nil
}

func getOutput() io.Writer {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	if testOutput != nil {
		return testOutput
	}
	if fileSink != nil {
		return io.MultiWriter(os.Stderr, fileSink)
	}
	return os.Stderr
}

// ParseLevel converts a level name into a slog level. Unknown names fall back to info.
func ParseLevel(logLevel string) (slog.Level, bool) {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// InitLogger initializes the global logger for CLI operations.
func InitLogger(logLevel string, format OutputFormat) {
	level, _ := ParseLevel(logLevel)

	stateMu.Lock()
	defer stateMu.Unlock()
	currentLevel.Set(level)
	currentFmt = format
	logger = slog.New(newHandler(format))
}

func newHandler(format OutputFormat) slog.Handler {
	opts := &slog.HandlerOptions{Level: currentLevel}
	if format == FormatJSON {
		return slog.NewJSONHandler(getOutput(), opts)
	}
	return slog.NewTextHandler(getOutput(), opts)
}

// SetOutputFormat switches the handler format while keeping the current level.
func SetOutputFormat(format OutputFormat) {
	stateMu.Lock()
	defer stateMu.Unlock()
	currentFmt = format
	logger = slog.New(newHandler(format))
}

// SetLevel changes the minimum level of the global logger.
func SetLevel(logLevel string) {
	level, _ := ParseLevel(logLevel)
	currentLevel.Set(level)
}

// SetLogFile adds a size-rotated log file next to the console output.
// An empty path removes the file sink.
func SetLogFile(path string) error {
	stateMu.Lock()
	defer stateMu.Unlock()

	if fileSink != nil {
		_ = fileSink.Close()
		fileSink = nil
	}
	if path != "" {
		if err := fsutil.EnsureFileDir(path); err != nil {
			logger = slog.New(newHandler(currentFmt))
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		fileSink = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			LocalTime:  true,
		}
	}
	logger = slog.New(newHandler(currentFmt))
	return nil
}

// GetLogger returns the configured logger instance.
func GetLogger() *slog.Logger {
	stateMu.Lock()
	lg := logger
	stateMu.Unlock()
	if lg == nil {
		// Initialize with default settings if not already initialized
		InitLogger("info", FormatText)
		stateMu.Lock()
		lg = logger
		stateMu.Unlock()
	}
	return lg
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	GetLogger().Info(msg, mergeFields(fields...)...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf(format, args...))
}

// InfofWithFields logs a formatted info message with fields.
func InfofWithFields(fields Fields, format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf(format, args...), mergeFields(fields)...)
}

// Debug logs a debug message (only shown when debug level is enabled).
func Debug(msg string, fields ...Fields) {
	GetLogger().Debug(msg, mergeFields(fields...)...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	GetLogger().Debug(fmt.Sprintf(format, args...))
}

// DebugfWithFields logs a formatted debug message with fields.
func DebugfWithFields(fields Fields, format string, args ...interface{}) {
	GetLogger().Debug(fmt.Sprintf(format, args...), mergeFields(fields)...)
}

// Error logs an error message.
func Error(msg string, fields ...Fields) {
	GetLogger().Error(msg, mergeFields(fields...)...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	GetLogger().Error(fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) {
	GetLogger().Warn(msg, mergeFields(fields...)...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	GetLogger().Warn(fmt.Sprintf(format, args...))
}

// WarnfWithFields logs a formatted warning message with fields.
func WarnfWithFields(fields Fields, format string, args ...interface{}) {
	GetLogger().Warn(fmt.Sprintf(format, args...), mergeFields(fields)...)
}

// Success logs a success message as info with success indicator.
func Success(msg string, fields ...Fields) {
	allFields := mergeFields(fields...)
	allFields = append(allFields, "status", "success")
	GetLogger().Info(msg, allFields...)
}

// Successf logs a formatted success message.
func Successf(format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf("SUCCESS: "+format, args...))
}

// mergeFields merges multiple field maps into one slice of key-value pairs for slog.
// Later maps win on duplicate keys.
func mergeFields(fields ...Fields) []interface{} {
	merged := Fields{}
	order := []string{}
	for _, field := range fields {
		for k, v := range field {
			if _, seen := merged[k]; !seen {
				order = append(order, k)
			}
			merged[k] = v
		}
	}
	result := make([]interface{}, 0, len(order)*2)
	for _, k := range order {
		result = append(result, k, merged[k])
	}
	return result
}
