// Package logger builds configured slog loggers for the checkout services.
//
// Defaults are production-safe (JSON, info level, stdout); development setups
// switch to text output via LOG_FORMAT=text or WithFormat:
//
//	log := logger.New(
//		logger.WithService("checkoutd"),
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithFormat(logger.FormatText),
//	)
package logger
