// Package discovery listens for SSDP traffic on the local network.
//
// A Listener binds one UDP socket per local IPv4 interface, either joined to
// the SSDP multicast group 239.255.255.250:1900 or as plain unicast sockets,
// and runs a single worker goroutine that polls each socket in turn. Every
// datagram is tokenized and validated by the notify package; valid
// notifications are passed to the caller's Handler and everything else is
// logged and dropped.
//
// # Usage Example
//
//	l, err := discovery.New(func(msg notify.Message) {
//	    fmt.Println(msg)
//	}, discovery.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Shutdown
//
// Stop returns once the worker has exited, which takes at most one
// ReceiveTimeout plus the time the Handler spends on the datagram in flight.
// Stop may be called any number of times.
//
// # Interfaces
//
// When Options.Interfaces is empty the listener binds every interface that is
// up (and multicast capable in multicast mode). Aliases on the same subnet
// each get their own socket.
package discovery
