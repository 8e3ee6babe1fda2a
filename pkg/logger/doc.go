// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The factory New creates a *slog.Logger configured by Option functions:
// output format (text or json), minimum level, default attributes applied to
// every record, and ContextExtractor callbacks that pull request-scoped values
// out of the context on every Handle call.
//
// Helper constructors such as UserID, Channel, JobID and Error return
// commonly-used slog.Attr instances so that operational triage logs carry a
// consistent attribute vocabulary across the notification pipeline.
//
//	log := logger.New(logger.WithProduction("notify"))
//	log.InfoContext(ctx, "job dispatched",
//	    logger.UserID(userID),
//	    logger.Channel("email"),
//	    logger.JobID(jobID),
//	)
package logger
