package forum

import "fmt"

// DeviceKind enumerates the device classes standardized by the UPnP Forum.
type DeviceKind int

const (
	DeviceUnimplemented DeviceKind = iota
	BasicDevice
	MediaServer
	MediaRenderer
	ManagedDevice
	SolarBlind
	SecurityCamera
	HVACSystem
	BinaryLight
	DimmableLight
	InternetGateway
	WirelessAP
	Printer
	Scanner
	SensorManager
	TelephonyClient
	TelephonyServer
)

// deviceNames maps URN type names to kinds. Lookup is case-sensitive.
var deviceNames = map[string]DeviceKind{
	"Basic":                 BasicDevice,
	"MediaServer":           MediaServer,
	"MediaRenderer":         MediaRenderer,
	"ManageableDevice":      ManagedDevice,
	"SolarProtectionBlind":  SolarBlind,
	"DigitalSecurityCamera": SecurityCamera,
	"HVAC_System":           HVACSystem,
	"BinaryLight":           BinaryLight,
	"DimmableLight":         DimmableLight,
	"InternetGatewayDevice": InternetGateway,
	"WLANAccessPointDevice": WirelessAP,
	"Printer":               Printer,
	"Scanner":               Scanner,
	"SensorManagement":      SensorManager,
	"TelephonyClient":       TelephonyClient,
	"TelephonyServer":       TelephonyServer,
}

// kindNames is the inverse of deviceNames.
var kindNames = func() map[DeviceKind]string {
	m := make(map[DeviceKind]string, len(deviceNames))
	for name, kind := range deviceNames {
		m[kind] = name
	}
	return m
}()

// LookupDeviceKind returns the kind registered for a URN type name.
func LookupDeviceKind(name string) (DeviceKind, bool) {
	k, ok := deviceNames[name]
	return k, ok
}

// URNName returns the URN type name of a standard kind, or "" for
// DeviceUnimplemented.
func (k DeviceKind) URNName() string {
	return kindNames[k]
}

func (k DeviceKind) String() string {
	switch k {
	case DeviceUnimplemented:
		return "Unimplemented"
	case BasicDevice:
		return "BasicDevice"
	case MediaServer:
		return "MediaServer"
	case MediaRenderer:
		return "MediaRenderer"
	case ManagedDevice:
		return "ManagedDevice"
	case SolarBlind:
		return "SolarBlind"
	case SecurityCamera:
		return "SecurityCamera"
	case HVACSystem:
		return "HVACSystem"
	case BinaryLight:
		return "BinaryLight"
	case DimmableLight:
		return "DimmableLight"
	case InternetGateway:
		return "InternetGateway"
	case WirelessAP:
		return "WirelessAP"
	case Printer:
		return "Printer"
	case Scanner:
		return "Scanner"
	case SensorManager:
		return "SensorManager"
	case TelephonyClient:
		return "TelephonyClient"
	case TelephonyServer:
		return "TelephonyServer"
	default:
		return fmt.Sprintf("DeviceKind(%d)", k)
	}
}

// DeviceType is a standardized device class at a given version. Name is the
// type name as it appeared in the URN; for DeviceUnimplemented it is the only
// way to tell unrecognised types apart.
type DeviceType struct {
	Kind    DeviceKind
	Name    string
	Version Version
}

// NewDeviceType looks name up in the forum registry. Unknown names produce a
// DeviceUnimplemented type; they are data, not errors.
func NewDeviceType(name string, v Version) DeviceType {
	kind, ok := LookupDeviceKind(name)
	if !ok {
		kind = DeviceUnimplemented
	}
	return DeviceType{Kind: kind, Name: name, Version: v}
}

// Implemented reports whether the type is in the forum registry.
func (d DeviceType) Implemented() bool {
	return d.Kind != DeviceUnimplemented
}

// URN renders the type as a forum URN value (without the "urn:" key).
func (d DeviceType) URN() string {
	return fmt.Sprintf("%s:%s:%s:%s", UPnPSchema, ClassDevice, d.Name, d.Version)
}

func (d DeviceType) String() string {
	if d.Kind == DeviceUnimplemented {
		return fmt.Sprintf("Unimplemented(%s, v%s)", d.Name, d.Version)
	}
	return fmt.Sprintf("%s(v%s)", d.Kind, d.Version)
}

// ServiceType is a service class at a given version. Services are carried
// generically by name.
type ServiceType struct {
	Name    string
	Version Version
}

// URN renders the type as a forum URN value (without the "urn:" key).
func (s ServiceType) URN() string {
	return fmt.Sprintf("%s:%s:%s:%s", UPnPSchema, ClassService, s.Name, s.Version)
}

func (s ServiceType) String() string {
	return fmt.Sprintf("Service(%s, v%s)", s.Name, s.Version)
}
