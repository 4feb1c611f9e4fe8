package section

import "fmt"

// Cookie is the leading magic number of a binary layer: a 32-bit base tag with the
// format version stored in bits 4-7.
type Cookie int32

// NewCookie combines a base tag and a version nibble.
func NewCookie(base int32, version uint8) Cookie {
	return Cookie(base + int32(version&0x0F)<<VersionShift)
}

// Base returns the cookie with the version bits cleared.
func (c Cookie) Base() int32 {
	return int32(c) &^ VersionMask
}

// Version returns the version nibble.
func (c Cookie) Version() uint8 {
	return uint8((int32(c) & VersionMask) >> VersionShift)
}

// IsSupportedVersion reports whether this package can read the cookie's version.
func (c Cookie) IsSupportedVersion() bool {
	_, ok := supportedVersions[c.Version()]
	return ok
}

func (c Cookie) String() string {
	return fmt.Sprintf("0x%08x(v%d)", uint32(c), c.Version())
}
