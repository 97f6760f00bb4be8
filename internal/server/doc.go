// Package server publishes live SSDP traffic over HTTP.
//
// The server runs a discovery.Listener, folds every notification into a
// tracker.Tracker and pushes the resulting change to WebSocket clients as a
// JSON Event. Expired announcements are swept periodically and published the
// same way.
//
// # Endpoints
//
//   - /ws: WebSocket feed of Event documents
//   - /devices: JSON array of the current tracker snapshot
//   - /healthz: version and table counters
//
// # Slow Clients
//
// Each client has a bounded send buffer. When a broadcast finds it full the
// client is disconnected; other clients are unaffected.
//
// # Usage Example
//
//	config := &server.Config{
//	    Addr:     ":8900",
//	    LogLevel: "info",
//	    Listener: discovery.DefaultOptions(),
//	}
//	srv, err := server.New(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
