package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "MOLEHOLE_LOG_LEVEL"

// ParseLevel maps a level name onto a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Initialize creates a new logger with the specified level.
// If level is empty, it checks MOLEHOLE_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the MOLEHOLE_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// SetLogger replaces the global logger. Passing nil restores silent mode.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent unless initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogRun logs a discovery run lifecycle event ("started", "finished")
func LogRun(runID string, source string, event string, fields ...zap.Field) {
	Info("Discovery run "+event, append([]zap.Field{
		zap.String("run_id", runID),
		zap.String("source", source),
	}, fields...)...)
}

// LogAdvertisement logs a service advertisement seen on the local network
func LogAdvertisement(host string, addresses []string) {
	Debug("Service advertisement",
		zap.String("host", host),
		zap.Strings("addresses", addresses),
	)
}

// LogResolution logs the outcome of an address to hardware address lookup.
// An empty mac means every strategy failed.
func LogResolution(ip string, mac string, method string) {
	if mac == "" {
		Debug("Address resolution failed", zap.String("ip", ip))
		return
	}
	Debug("Address resolved",
		zap.String("ip", ip),
		zap.String("mac", mac),
		zap.String("method", method),
	)
}

// LogSighting logs a hardware address matched (or not) against the device table
func LogSighting(source string, mac string, deviceID string, matched bool) {
	Debug("Device sighting",
		zap.String("source", source),
		zap.String("mac", mac),
		zap.String("device_id", deviceID),
		zap.Bool("matched", matched),
	)
}

// LogConnection logs a WebSocket connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogHTTPRequest logs a served HTTP request
func LogHTTPRequest(remoteAddr string, method string, path string, statusCode int, elapsed time.Duration) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
		zap.Duration("elapsed", elapsed),
	)
}

// LogWebSocketMessage logs a WebSocket message
func LogWebSocketMessage(remoteAddr string, direction string, messageType int, data []byte) {
	fields := []zap.Field{
		zap.String("remote_addr", remoteAddr),
		zap.String("direction", direction),
		zap.String("message_type", wsMessageTypeName(messageType)),
		zap.Int("length", len(data)),
	}

	if messageType == 1 && GetLogger().Core().Enabled(zapcore.DebugLevel) {
		fields = append(fields, zap.String("content", truncate(string(data), 512)))
	}

	Info("WebSocket message", fields...)
}

func wsMessageTypeName(msgType int) string {
	switch msgType {
	case 1:
		return "text"
	case 2:
		return "binary"
	case 8:
		return "close"
	case 9:
		return "ping"
	case 10:
		return "pong"
	default:
		return fmt.Sprintf("unknown(%d)", msgType)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
