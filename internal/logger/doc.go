// Package logger builds the application's slog logger.
//
// Records go to a JSON (or text) handler on stdout and, when a Sentry DSN is
// configured, to Sentry as well: errors become issues, warnings are kept as
// Sentry logs. A LogHandlerDecorator adds attributes pulled from the context
// on every call, which is how the dispatch run id and the HTTP request id end
// up on each line without being passed around explicitly:
//
//	log := logger.New(cfg, logger.RunIDExtractor(), logger.RequestIDExtractor())
//	ctx := logger.WithRunID(ctx, runID)
//	log.InfoContext(ctx, "dispatch finished") // {"msg":"dispatch finished","run_id":"..."}
//
// If Sentry initialization fails the logger keeps writing to stdout only.
package logger
