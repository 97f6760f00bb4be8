package forum

import (
	"fmt"
	"strconv"
)

// Version is the revision number of a standardized device or service type.
type Version uint8

const (
	V1 Version = iota + 1
	V2
	V3
	V4
	V5
)

// ParseVersion converts a decimal string to a Version. Values outside 1..5
// or strings that are not decimal numbers yield false.
func ParseVersion(s string) (Version, bool) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return VersionFromByte(byte(n))
}

// VersionFromByte converts a numeric version to a Version.
func VersionFromByte(b byte) (Version, bool) {
	v := Version(b)
	if v < V1 || v > V5 {
		return 0, false
	}
	return v, true
}

// Valid reports whether v is one of V1..V5.
func (v Version) Valid() bool {
	return v >= V1 && v <= V5
}

func (v Version) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Version(%d)", uint8(v))
	}
	return strconv.Itoa(int(v))
}
