// Package initializer builds process-level dependencies: the logger and the
// persistence backend the services run on.
package initializer

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/finvault/finvault/infra"
	"github.com/finvault/finvault/infra/memory"
	gormrepo "github.com/finvault/finvault/infra/repository"
	"github.com/finvault/finvault/pkg/config"
	"github.com/finvault/finvault/pkg/repository"
)

// SetupLogger builds the process logger and installs it as slog's default.
func SetupLogger(cfg *config.Log) *slog.Logger {
	formattersMap := map[string]log.Formatter{
		"json": log.JSONFormatter,
		"text": log.TextFormatter,
	}
	formatter := log.TextFormatter
	if f, ok := formattersMap[cfg.Format]; ok {
		formatter = f
	}

	logger := log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})

	slogger := slog.New(logger)
	slog.SetDefault(slogger)
	return slogger
}

// SetupUoW connects the persistence backend. With a database URL configured
// it opens postgres and migrates the schema; without one it falls back to the
// in-memory store for local development.
func SetupUoW(cfg *config.App, logger *slog.Logger) (repository.UnitOfWork, error) {
	if cfg.DB.Url == "" {
		logger.Warn("no database url configured, using in-memory store")
		return memory.NewUoW(), nil
	}
	db, err := infra.NewDBConnection(cfg.DB.Url, cfg.Env)
	if err != nil {
		return nil, err
	}
	if err := gormrepo.AutoMigrate(db); err != nil {
		return nil, err
	}
	logger.Info("database connected and migrated")
	return gormrepo.NewUoW(db), nil
}
