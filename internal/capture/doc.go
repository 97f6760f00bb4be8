// Package capture records raw SSDP datagrams to disk and replays them.
//
// Captures are CBOR sequences of Record values, one per datagram, with the
// receive time, interface and source address alongside the payload. A
// capture taken with `ssdpmon listen --capture` can be fed back through the
// parser later with `ssdpmon replay`, which makes field reports from odd
// devices reproducible.
//
//	w, path, err := capture.Create(dir)
//	opts.OnDatagram = w.Datagram
//
//	r, err := capture.Open(path)
//	stats, err := capture.Replay(r, func(rec capture.Record, msg notify.Message) {
//	    fmt.Println(msg)
//	})
package capture
