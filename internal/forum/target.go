package forum

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/muurk/ssdpmon/internal/ssdp"
)

// Interface schema standardized by the UPnP Forum.
const UPnPSchema = "schemas-upnp-org"

// Target class and keyword values.
const (
	RootDeviceValue = "rootdevice"
	ClassDevice     = "device"
	ClassService    = "service"

	urnSeparator = ":"
	urnParts     = 4
)

// Target resolution errors. Resolve wraps these with the offending value.
var (
	ErrInvalidUPnPTarget = errors.New("invalid UPnP target value")
	ErrInvalidUUID       = errors.New("UUID target is not valid UTF-8")
	ErrInvalidURN        = errors.New("URN target is not valid UTF-8")
	ErrMissingComponent  = errors.New("URN target is missing a component")
	ErrInvalidFormat     = errors.New("URN target has invalid format")
	ErrInvalidVersion    = errors.New("URN target has invalid version")
	ErrBadTargetClass    = errors.New("URN target class must be device or service")
	ErrUnsupportedSchema = errors.New("non-forum URN schema is not supported")
	ErrUnknownTarget     = errors.New("unknown field key invalid as target")
)

// TargetKind tells which variant a TargetType holds.
type TargetKind int

const (
	TargetRoot TargetKind = iota
	TargetUUID
	TargetDevice
	TargetService
)

func (k TargetKind) String() string {
	switch k {
	case TargetRoot:
		return "root"
	case TargetUUID:
		return "uuid"
	case TargetDevice:
		return "device"
	case TargetService:
		return "service"
	default:
		return fmt.Sprintf("TargetKind(%d)", k)
	}
}

// TargetType is what an NT or USN header says is being announced. Device
// is set only for TargetDevice, Service only for TargetService.
type TargetType struct {
	Kind    TargetKind
	Device  DeviceType
	Service ServiceType
}

// Root returns the root device target.
func Root() TargetType { return TargetType{Kind: TargetRoot} }

// UUIDTarget returns the unique device target.
func UUIDTarget() TargetType { return TargetType{Kind: TargetUUID} }

// DeviceTarget returns a device class target.
func DeviceTarget(d DeviceType) TargetType { return TargetType{Kind: TargetDevice, Device: d} }

// ServiceTarget returns a service class target.
func ServiceTarget(s ServiceType) TargetType { return TargetType{Kind: TargetService, Service: s} }

// Version returns the device or service version, if the target has one.
func (t TargetType) Version() (Version, bool) {
	switch t.Kind {
	case TargetDevice:
		return t.Device.Version, true
	case TargetService:
		return t.Service.Version, true
	default:
		return 0, false
	}
}

// URN renders device and service targets as their forum URN value.
func (t TargetType) URN() (string, bool) {
	switch t.Kind {
	case TargetDevice:
		return t.Device.URN(), true
	case TargetService:
		return t.Service.URN(), true
	default:
		return "", false
	}
}

func (t TargetType) String() string {
	switch t.Kind {
	case TargetDevice:
		return "Device(" + t.Device.String() + ")"
	case TargetService:
		return t.Service.String()
	case TargetRoot:
		return "Root"
	case TargetUUID:
		return "UUID"
	default:
		return t.Kind.String()
	}
}

// Resolve interprets a field pair as a target type.
func Resolve(pair ssdp.FieldPair) (TargetType, error) {
	switch pair.Kind {
	case ssdp.KindUPnP:
		if string(pair.Value) != RootDeviceValue {
			return TargetType{}, fmt.Errorf("%w: %q", ErrInvalidUPnPTarget, pair.Value)
		}
		return Root(), nil

	case ssdp.KindUUID:
		if !utf8.Valid(pair.Value) {
			return TargetType{}, ErrInvalidUUID
		}
		return UUIDTarget(), nil

	case ssdp.KindURN:
		return resolveURN(pair.Value)

	default:
		return TargetType{}, fmt.Errorf("%w: %q", ErrUnknownTarget, pair.Key)
	}
}

func resolveURN(value []byte) (TargetType, error) {
	if !utf8.Valid(value) {
		return TargetType{}, ErrInvalidURN
	}
	urn := string(value)

	parts := strings.Split(urn, urnSeparator)
	if len(parts) < urnParts {
		return TargetType{}, fmt.Errorf("%w: %q", ErrMissingComponent, urn)
	}
	if len(parts) > urnParts {
		return TargetType{}, fmt.Errorf("%w: %q", ErrInvalidFormat, urn)
	}
	schema, class, name, rawVersion := parts[0], parts[1], parts[2], parts[3]

	version, ok := ParseVersion(rawVersion)
	if !ok {
		return TargetType{}, fmt.Errorf("%w: %q", ErrInvalidVersion, rawVersion)
	}

	if class != ClassDevice && class != ClassService {
		return TargetType{}, fmt.Errorf("%w: %q", ErrBadTargetClass, class)
	}

	// TODO: vendor schemas (domain-name:device:...) need their own registry.
	if schema != UPnPSchema {
		return TargetType{}, fmt.Errorf("%w: %q", ErrUnsupportedSchema, schema)
	}

	if class == ClassDevice {
		return DeviceTarget(NewDeviceType(name, version)), nil
	}
	return ServiceTarget(ServiceType{Name: name, Version: version}), nil
}

// IsUnsupported reports whether err is a resolution failure for a
// recognised but unimplemented target form.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedSchema)
}
