// Package logging provides structured logging for ssdpmon.
//
// This package wraps a global zap logger with convenience functions used by the
// discovery listener, the live feed server and the CLI. Logging is silent by
// default so the packages can be embedded without producing output.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Raw datagram dumps, socket poll details
//   - Info: Parsed notifications, listener and server lifecycle
//   - Warn: Dropped datagrams, slow feed clients
//   - Error: Socket failures, startup errors
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Listener started",
//	    zap.Int("sockets", 3),
//	    zap.Duration("receive_timeout", 250*time.Millisecond),
//	)
//
// # Specialized Logging
//
//	logging.LogDatagram(iface, source, payload)
//	logging.LogNotification(source, "ssdp:alive", "Root", "uuid:...")
//	logging.LogDropped(source, payload, err)
//
// # Configuration
//
// Initialize logging at startup, either from a flag or SSDPMON_LOG_LEVEL:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once Initialize has
// returned. Initialize itself must not race with logging calls.
package logging
