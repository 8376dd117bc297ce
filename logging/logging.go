// Package logging builds the zap loggers used by the CLI and batch runs:
// console output, plus an optional rotated JSON file.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level, console format and file output.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info, or debug in
	// development mode.
	Level string `yaml:"level"`
	// Development switches the console to the coloured human encoder.
	Development bool `yaml:"development"`
	// FilePath enables a rotated JSON log file when set.
	FilePath string `yaml:"file"`
	// Rotation tunes the file writer. Zero fields take the defaults.
	Rotation FileWriterConfig `yaml:"rotation"`
}

// New builds a logger from cfg. Console output goes to stderr so command
// output on stdout stays clean.
//
// Example:
//
//	logger := logging.New(logging.Config{Level: "debug", FilePath: "imgshift.log"})
//	defer logger.Sync()
func New(cfg Config) *zap.Logger {
	var file zapcore.WriteSyncer
	if cfg.FilePath != "" {
		file = NewFileWriterWithConfig(cfg.FilePath, cfg.Rotation)
	}
	return NewWithWriters(cfg.level(), zapcore.Lock(os.Stderr), file, cfg.Development)
}

func (c Config) level() zapcore.Level {
	def := zapcore.InfoLevel
	if c.Development {
		def = zapcore.DebugLevel
	}
	return ParseLevel(c.Level, def)
}

// NewWithWriters builds a logger over explicit writers. file may be nil.
func NewWithWriters(level zapcore.Level, console, file zapcore.WriteSyncer, isDev bool) *zap.Logger {
	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}

	core := zapcore.NewCore(consoleEncoder, console, level)
	if file != nil {
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(NewEncoderConfig()), file, level)
		core = zapcore.NewTee(core, fileCore)
	}

	return zap.New(core, zap.AddCaller())
}

// NewEncoderConfig is the JSON encoder layout shared by file and
// production console output.
func NewEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// NewConsoleEncoderConfig is the coloured development layout.
func NewConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := NewEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return cfg
}

// ParseLevel maps a level name to a zap level, falling back to def for
// empty or unknown names.
func ParseLevel(s string, def zapcore.Level) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return def
	}
}
