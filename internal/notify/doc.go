// Package notify validates SSDP NOTIFY messages and builds typed
// notification records from them.
//
// A NOTIFY header block is accepted only when it is internally consistent:
//
//   - HOST is the multicast rendezvous 239.255.255.250:1900
//   - NT and USN each appear exactly once
//   - USN is uuid:<id>, optionally followed by :: and the NT target
//   - NT either equals the USN uuid (and USN has no target), or is a upnp:
//     or urn: token repeated verbatim after the USN separator
//
// The NTS header selects the result type. ssdp:alive and ssdp:update also
// need CACHE-CONTROL max-age, an absolute LOCATION URL, and a SERVER header
// from which the UPnP revision is inferred; revisions 1.1 and 2.0 add
// BOOTID.UPNP.ORG and CONFIGID.UPNP.ORG as mandatory headers. ssdp:byebye
// needs neither lifetime nor location.
//
// # Usage
//
//	msg, err := notify.ParseDatagram(datagram)
//	if err != nil {
//	    return err
//	}
//	switch m := msg.(type) {
//	case *notify.AliveMessage:
//	    fmt.Println(m.Query().UDN(), m.Location(), m.MaxAge())
//	case *notify.ByeByeMessage:
//	    fmt.Println(m.Query().UDN(), "left")
//	}
//
// Messages are immutable once built. Announcement.IsExpired compares the
// monotonic time elapsed since construction with the advertised max-age.
package notify
