// Package forum resolves SSDP target tokens into UPnP Forum device and
// service types.
//
// NT and USN headers name what is being announced: the root device, a unique
// device, or a device/service class written as a URN:
//
//	urn:schemas-upnp-org:device:MediaServer:1
//	    |                |      |           |
//	    schema           class  type name   version (1-5)
//
// Resolve turns an ssdp.FieldPair into a TargetType. Device type names are
// looked up case-sensitively in a fixed registry of forum-standardized
// classes; names not in the registry resolve to DeviceUnimplemented and are
// not errors. URNs outside the schemas-upnp-org schema return
// ErrUnsupportedSchema.
//
// Query is the single typed view handed to callers for every announcement.
// Narrow it with Query.Device and switch on DeviceQuery.Kind:
//
//	if dq, ok := msg.Query().Device(); ok {
//	    switch dq.Kind() {
//	    case forum.MediaServer:
//	        // ...
//	    }
//	}
package forum
