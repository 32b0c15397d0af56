// Package logger builds configured slog loggers for the gateway and its
// packages.
//
// Output is JSON at info level by default, suitable for log aggregation.
// Development setups switch to text at debug level via LOG_FORMAT and
// LOG_LEVEL, loaded through the config package:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg, slog.String("service", "gateway"))
//	slog.SetDefault(log)
//
// The Error attr helper gives error values a consistent key across the
// codebase.
package logger
