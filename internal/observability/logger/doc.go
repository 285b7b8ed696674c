// Package logger provides a singleton Zap logger with context-based scoping.
//
// Initialization (once, in main.go):
//
//	logger.Init(logger.Config{
//	    Env:   os.Getenv("APP_ENV"),   // "dev" or "prod"
//	    Level: os.Getenv("LOG_LEVEL"), // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// In handlers/services (with a request context):
//
//	log := logger.From(ctx)
//	log.Info("processing request", logger.UserID(userID))
//
// Without a context the singleton is used directly:
//
//	logger.L().Info("application started")
package logger
