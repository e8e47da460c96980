// Package logger builds slog loggers and provides attribute helpers used
// across lazyacme.
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "lazyacme")),
//	)
//
//	log.Info("certificate ready",
//		logger.Domain("example.com"),
//		logger.AttemptID(id),
//		logger.Duration(time.Since(start)),
//	)
//
// Helpers such as Error and Domain return an empty slog.Attr for zero input,
// which slog drops, so they are safe to pass without nil checks.
//
// Components accept a *slog.Logger through options and fall back to Discard.
package logger
