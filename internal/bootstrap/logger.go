package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/CampusQuest_Go/internal/config"
	"github.com/osse101/CampusQuest_Go/internal/logger"
)

// SetupLogger initializes slog to write to stdout and a rotating file in
// cfg.LogDir. The returned closer flushes the file; the caller must close it.
func SetupLogger(cfg *config.Config) (io.Closer, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateLogsDir, err)
	}

	// Source locations only in dev
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	logCfg := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	).WithFile(filepath.Join(cfg.LogDir, LogFileName))

	closer := logger.InitLogger(logCfg)

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.Level, "format", logCfg.Format, "file", logCfg.FilePath)
	slog.Info(LogMsgStartingService,
		"environment", cfg.Environment,
		"version", cfg.Version,
		"store_driver", cfg.StoreDriver)

	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"redis", cfg.RedisAddr != "",
		"kafka", len(cfg.KafkaBrokers) > 0,
		"s3_bucket", cfg.S3Bucket)

	return closer, nil
}
