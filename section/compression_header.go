package section

import (
	"fmt"

	"github.com/arloliu/hdrlog/endian"
	"github.com/arloliu/hdrlog/errs"
)

// CompressionHeader is the envelope that wraps a compressed EncodingHeader and its counts.
//
// Wire layout (8 bytes, big-endian, packed):
//
//	0-3  cookie
//	4-7  length of the compressed payload that follows
type CompressionHeader struct {
	Cookie Cookie
	Length int32
}

// NewCompressionHeader creates an envelope header for a payload of length bytes.
func NewCompressionHeader(length int32) CompressionHeader {
	return CompressionHeader{
		Cookie: CompressionCookie,
		Length: length,
	}
}

// Parse parses the header from a byte slice and validates it.
func (h *CompressionHeader) Parse(data []byte) error {
	if len(data) != CompressionHeaderSize {
		return fmt.Errorf("%w: compression header is %d bytes, want %d",
			errs.ErrInvalidArgument, len(data), CompressionHeaderSize)
	}

	h.Cookie = Cookie(endian.Int32(data[cookieOffset:]))
	h.Length = endian.Int32(data[lengthOffset:])

	return h.Validate()
}

// Validate checks the base tag, the version nibble and the payload length, in that order.
func (h CompressionHeader) Validate() error {
	if h.Cookie.Base() != CompressionCookieBase {
		return fmt.Errorf("%w: got %s", errs.ErrCompressionCookieMismatch, h.Cookie)
	}

	if !h.Cookie.IsSupportedVersion() {
		return fmt.Errorf("%w: unsupported compression version %d", errs.ErrInvalidArgument, h.Cookie.Version())
	}

	if h.Length < 0 {
		return fmt.Errorf("%w: negative compressed length %d", errs.ErrInvalidArgument, h.Length)
	}

	return nil
}

// PutBytes serializes the header into dst[0:CompressionHeaderSize].
func (h CompressionHeader) PutBytes(dst []byte) {
	_ = dst[CompressionHeaderSize-1]

	endian.PutInt32(dst[cookieOffset:], int32(h.Cookie))
	endian.PutInt32(dst[lengthOffset:], h.Length)
}

// Bytes serializes the header into a new byte slice.
func (h CompressionHeader) Bytes() []byte {
	b := make([]byte, CompressionHeaderSize)
	h.PutBytes(b)

	return b
}

// ParseCompressionHeader parses a CompressionHeader from the head of data.
func ParseCompressionHeader(data []byte) (CompressionHeader, error) {
	if len(data) < CompressionHeaderSize {
		return CompressionHeader{}, fmt.Errorf("%w: envelope needs %d bytes, got %d",
			errs.ErrInvalidArgument, CompressionHeaderSize, len(data))
	}

	h := CompressionHeader{}
	if err := h.Parse(data[:CompressionHeaderSize]); err != nil {
		return CompressionHeader{}, err
	}

	return h, nil
}
