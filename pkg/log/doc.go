// Package log is a leveled structured logger built on zap that travels in a
// context.Context.
//
// Libraries log through the package level functions with the context they
// were given; nothing is written unless the caller stored a logger with
// Context:
//
//	lvl := log.NewAtomicLevelAt(log.DebugLevel)
//	ctx := log.Context(context.Background(), log.NewLogger(&lvl, log.WithConsoleEncoding()))
//	log.Debug(ctx, "transfer done", log.Int("status", 200))
package log
