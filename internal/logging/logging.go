// Package logging builds the service logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/internal/config"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// New returns a logger for env writing to stdout. level overrides the
// environment default when set.
func New(env, level string) (zerolog.Logger, error) {
	return NewWithWriter(os.Stdout, env, level)
}

func NewWithWriter(out io.Writer, env, level string) (zerolog.Logger, error) {
	var lvl zerolog.Level
	switch env {
	case config.EnvDev:
		lvl = zerolog.DebugLevel
	case config.EnvProd:
		lvl = zerolog.InfoLevel
	case config.EnvLocal:
		lvl = zerolog.TraceLevel
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", env)
	}

	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), err
		}
		lvl = parsed
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Str("env", env).
		Logger(), nil
}
