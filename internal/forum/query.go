package forum

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// UDNPrefix precedes the device UUID in a Unique Device Name.
const UDNPrefix = "uuid:"

// Query identifies what a notification announced: the device UDN, the target
// type from NT, and the advertised location (nil for departing devices).
type Query struct {
	udn      string
	target   TargetType
	location *url.URL
}

// NewQuery builds a query. location may be nil.
func NewQuery(udn string, target TargetType, location *url.URL) Query {
	return Query{udn: udn, target: target, location: location}
}

// UDN returns the Unique Device Name, "uuid:" followed by the device UUID.
func (q Query) UDN() string { return q.udn }

// UUID returns the UDN without its "uuid:" prefix.
func (q Query) UUID() string {
	return strings.TrimPrefix(q.udn, UDNPrefix)
}

// ParsedUUID parses the device UUID as RFC 4122 text. UPnP 1.0 devices are
// allowed any UTF-8 string, so failure here does not make a message invalid.
func (q Query) ParsedUUID() (uuid.UUID, error) {
	return uuid.Parse(q.UUID())
}

// Target returns the announced target type.
func (q Query) Target() TargetType { return q.target }

// Location returns the description URL, or nil when none was advertised.
func (q Query) Location() *url.URL { return q.location }

// Version returns the device or service version of the target, if any.
func (q Query) Version() (Version, bool) { return q.target.Version() }

// Device narrows q to a device query when the target names a device class.
func (q Query) Device() (DeviceQuery, bool) {
	if q.target.Kind != TargetDevice {
		return DeviceQuery{}, false
	}
	return DeviceQuery{Query: q}, true
}

// DeviceQuery is a Query whose target is a device class. It stands in for a
// separate wrapper per standardized device: callers switch on Kind.
type DeviceQuery struct {
	Query
}

// Kind returns the device class.
func (d DeviceQuery) Kind() DeviceKind { return d.target.Device.Kind }

// Type returns the full device type, including the raw URN name.
func (d DeviceQuery) Type() DeviceType { return d.target.Device }

// Version returns the device version.
func (d DeviceQuery) Version() Version { return d.target.Device.Version }
