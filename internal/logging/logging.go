// Package logging builds the session's zerolog sink: a log file under the
// save directory plus an optional console writer. The returned logger is
// passed explicitly to every component that records activity.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogFile is used when no filename is given.
const DefaultLogFile = "agent.log"

// New creates the session logger. The caller owns the returned closer and
// releases it when the session ends.
func New(dir, filename string, console bool) (zerolog.Logger, io.Closer, error) {
	if filename == "" {
		filename = DefaultLogFile
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, filename)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	var w io.Writer = file
	if console {
		w = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	logger := zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	logger.Info().Str("path", path).Msg("logging initialized")
	return logger, file, nil
}

// Console returns a console-only logger for use before the config (and with
// it the save directory) is known.
func Console() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}
