// Package logging provides structured logging for molehole.
//
// This package wraps a global zap logger with convenience functions. The
// logger is silent until Initialize is called with a level or the
// MOLEHOLE_LOG_LEVEL environment variable is set, so command output stays
// clean by default. Log lines go to stderr.
//
// # Log Levels
//
//   - Debug: per-address detail (advertisements, resolutions, sightings)
//   - Info: run lifecycle, HTTP and WebSocket traffic
//   - Warn: degraded discovery (scanner or browser unavailable)
//   - Error: startup failures
//
// # Structured Logging
//
//	logging.Info("Mapping table loaded",
//	    zap.String("path", path),
//	    zap.Int("mappings", table.Len()),
//	)
//
// # Specialized Logging
//
//	logging.LogRun(runID, "lan", "started")
//	logging.LogAdvertisement(host, addrs)
//	logging.LogResolution(ip, mac, "table")
//	logging.LogSighting("ap", mac, id, true)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once the logger has been
// initialized.
package logging
