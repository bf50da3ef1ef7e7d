// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config interface {
	GetLogLevel() string
	GetLogFile() string
	IsDev() bool
}

// Setup sets the global level and output. In DEV logs go to a console writer,
// elsewhere JSON. A configured log file receives the same stream and is rotated.
// The returned closer flushes and closes the file sink.
func Setup(cfg Config) io.Closer {
	zerolog.SetGlobalLevel(ParseLevel(cfg.GetLogLevel()))
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	var closer io.Closer = nopCloser{}
	if file := cfg.GetLogFile(); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			log.Err(err).Str("file", file).Msg("Failed to create log directory, logging to stdout only")
		} else {
			rotating := &lumberjack.Logger{
				Filename:   file,
				MaxSize:    100, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			out = io.MultiWriter(out, rotating)
			closer = rotating
		}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer
}

// ParseLevel falls back to info for unknown names
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
