package format

type (
	CompressionType uint8
	FailurePolicy   uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents a plain text log.
	CompressionGzip CompressionType = 0x2 // CompressionGzip represents a gzip compressed log.
	CompressionZstd CompressionType = 0x3 // CompressionZstd represents a Zstandard compressed log.
	CompressionS2   CompressionType = 0x4 // CompressionS2 represents an S2 stream compressed log.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 represents an LZ4 frame compressed log.

	// SkipInvalid skips a log record whose payload cannot be decoded and keeps scanning.
	SkipInvalid FailurePolicy = 0x1
	// AbortOnInvalid stops the scan at the first record whose payload cannot be decoded.
	AbortOnInvalid FailurePolicy = 0x2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a case-sensitive lower-case name ("none", "gzip", "zstd",
// "s2", "lz4") to its CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "gzip":
		return CompressionGzip, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

func (p FailurePolicy) String() string {
	switch p {
	case SkipInvalid:
		return "Skip"
	case AbortOnInvalid:
		return "Abort"
	default:
		return "Unknown"
	}
}

// ParseFailurePolicy maps "skip" or "abort" to its FailurePolicy.
func ParseFailurePolicy(name string) (FailurePolicy, bool) {
	switch name {
	case "skip", "":
		return SkipInvalid, true
	case "abort":
		return AbortOnInvalid, true
	default:
		return 0, false
	}
}
