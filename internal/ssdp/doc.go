// Package ssdp implements the wire layer of the Simple Service Discovery Protocol.
//
// SSDP messages are HTTP/1.1-style requests carried in single UDP datagrams
// (HTTPU) on the multicast group 239.255.255.250:1900. This package splits a
// datagram into a request line and a header block, decomposes colon-delimited
// header tokens into typed FieldPair values, and defines the error taxonomy
// used by every later stage of the notification pipeline.
//
// # Field Pairs
//
// The NT, USN and ST headers carry tokens of the form key:value. Only the first
// colon is structural:
//
//	upnp:rootdevice                          -> KindUPnP  "rootdevice"
//	uuid:2fac1234-31f8-11b4-a222-08002b34c003 -> KindUUID  "2fac1234-..."
//	urn:schemas-upnp-org:device:Basic:1      -> KindURN   "schemas-upnp-org:device:Basic:1"
//	vendor:thing                             -> KindUnknown("vendor", "thing")
//
// Parsing then calling String reproduces the input byte for byte, including
// values that begin with a colon ("uuid::abc").
//
// # Tokenizing
//
//	req, err := ssdp.ParseRequest(datagram)
//	if err != nil {
//	    // ssdp.IsType(err, ssdp.ErrTypeMalformed) is true
//	}
//	nt := req.Header.Get(ssdp.HeaderNT)
//
// # Errors
//
// All failures are *Error values classified by ErrorType. Header errors name
// the offending header so callers can log or count them per field.
package ssdp
