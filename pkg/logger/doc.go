// Package logger builds configured *slog.Logger instances for the vault
// crypto core.
//
// The factory supports text output for development and JSON for production
// log aggregation, a minimum level, static attributes attached to every
// record, and a custom output writer. Crypto packages log operational events
// only; plaintext, keys and normalized secrets are never logged.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatJSON),
//	    logger.WithLevel(slog.LevelInfo),
//	    logger.WithAttr(slog.String("component", "vault-crypto")),
//	)
//	log.Info("migration started", "items", len(items))
package logger
