package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xdimtech/go-obsws/pkg/config"
)

// New builds the process logger from configuration. Output goes to stderr
// so command output on stdout stays machine readable.
func New(app string, conf config.LogConf) zerolog.Logger {
	return NewWithWriter(app, conf, os.Stderr)
}

func NewWithWriter(app string, conf config.LogConf, w io.Writer) zerolog.Logger {
	out := w
	if conf.Console {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).
		Level(ParseLevel(conf.Level)).
		With().Timestamp().Str("app", app).
		Logger()
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info.
// "off" and "none" disable logging.
func ParseLevel(raw string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "off" || name == "none" {
		return zerolog.Disabled
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
