package section

const (
	// Cookie layout: base tag with the format version in bits 4-7.
	VersionMask  = 0x000000F0
	VersionShift = 4

	// EncodingCookieBase tags the uncompressed metadata record ("flyweight").
	EncodingCookieBase int32 = 0x1c849308
	// CompressionCookieBase tags the compressed envelope.
	CompressionCookieBase int32 = 0x1c849309

	// FormatVersion is the version nibble written by this package.
	FormatVersion uint8 = 8
)

// offsets and sizes of the packed headers
const (
	EncodingHeaderSize    = 32 // cookie(4) + sigfigs(4) + lowest(8) + highest(8) + total(8)
	CompressionHeaderSize = 8  // cookie(4) + length(4)
	CountSize             = 8  // one wire-order int64 count

	cookieOffset      = 0
	sigFigsOffset     = 4
	lowestOffset      = 8
	highestOffset     = 16
	totalCountOffset  = 24
	lengthOffset      = 4
)

var (
	EncodingCookie    = NewCookie(EncodingCookieBase, FormatVersion)    // 0x1c849388
	CompressionCookie = NewCookie(CompressionCookieBase, FormatVersion) // 0x1c849389

	supportedVersions = map[uint8]struct{}{
		FormatVersion: {},
	}
)
