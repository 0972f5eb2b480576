package logger

import (
	"io"
	"os"
	"rental/config"
	"rental/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger writes JSON in production and a console format elsewhere, tagged with the app name.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(Writer(cfg.Server.Env, os.Stdout)).With().Timestamp()
	if cfg.App.Name != "" {
		logger = logger.Str("app", cfg.App.Name)
	}

	log.Logger = logger.Logger()

	SetLogLevel(cfg)
}

func Writer(env string, out io.Writer) io.Writer {
	if env == constant.ServerEnvProduction {
		return out
	}

	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel falls back to info when LOG_LEVEL is empty or unknown.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	log.Debug().Str("loglevel", level.String()).Msg("Log level set.")
}
