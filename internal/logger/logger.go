package logger

import (
    "os"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/config"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

func New(cfg config.Config) zerolog.Logger {
    lvl, err := zerolog.ParseLevel(cfg.LogLevel)
    if err != nil { lvl = zerolog.InfoLevel }
    if cfg.AppEnv == "dev" {
        output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
        logger := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
        log.Logger = logger
        return logger
    }
    zerolog.TimeFieldFormat = time.RFC3339
    logger := zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Str("svc", "backlog-pulse").Logger()
    log.Logger = logger
    return logger
}
