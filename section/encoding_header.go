package section

import (
	"fmt"

	"github.com/arloliu/hdrlog/endian"
	"github.com/arloliu/hdrlog/errs"
)

// EncodingHeader is the fixed metadata record that precedes the counts of a histogram
// inside the compressed stream.
//
// Wire layout (32 bytes, big-endian, packed):
//
//	0-3    cookie
//	4-7    significant figures
//	8-15   lowest trackable value
//	16-23  highest trackable value
//	24-31  total count
//
// The counts follow as consecutive big-endian int64 values; their number is not
// stored and is recomputed from the range and precision on decode.
type EncodingHeader struct {
	Cookie                Cookie
	SignificantFigures    int32
	LowestTrackableValue  int64
	HighestTrackableValue int64
	TotalCount            int64
}

// NewEncodingHeader creates a header carrying the current encoding cookie.
func NewEncodingHeader(sigFigs int32, lowest, highest, totalCount int64) EncodingHeader {
	return EncodingHeader{
		Cookie:                EncodingCookie,
		SignificantFigures:    sigFigs,
		LowestTrackableValue:  lowest,
		HighestTrackableValue: highest,
		TotalCount:            totalCount,
	}
}

// Parse parses the header from a byte slice and validates its cookie.
//
// Returns:
//   - error: ErrInvalidArgument if data is not exactly EncodingHeaderSize bytes, or
//     the validation error of Validate
func (h *EncodingHeader) Parse(data []byte) error {
	if len(data) != EncodingHeaderSize {
		return fmt.Errorf("%w: encoding header is %d bytes, want %d",
			errs.ErrInvalidArgument, len(data), EncodingHeaderSize)
	}

	h.Cookie = Cookie(endian.Int32(data[cookieOffset:]))
	h.SignificantFigures = endian.Int32(data[sigFigsOffset:])
	h.LowestTrackableValue = endian.Int64(data[lowestOffset:])
	h.HighestTrackableValue = endian.Int64(data[highestOffset:])
	h.TotalCount = endian.Int64(data[totalCountOffset:])

	return h.Validate()
}

// Validate checks the base tag first, then the version nibble.
func (h EncodingHeader) Validate() error {
	if h.Cookie.Base() != EncodingCookieBase {
		return fmt.Errorf("%w: got %s", errs.ErrEncodingCookieMismatch, h.Cookie)
	}

	if !h.Cookie.IsSupportedVersion() {
		return fmt.Errorf("%w: unsupported encoding version %d", errs.ErrInvalidArgument, h.Cookie.Version())
	}

	return nil
}

// PutBytes serializes the header into dst[0:EncodingHeaderSize].
// Panics if dst is shorter than EncodingHeaderSize.
func (h EncodingHeader) PutBytes(dst []byte) {
	_ = dst[EncodingHeaderSize-1]

	endian.PutInt32(dst[cookieOffset:], int32(h.Cookie))
	endian.PutInt32(dst[sigFigsOffset:], h.SignificantFigures)
	endian.PutInt64(dst[lowestOffset:], h.LowestTrackableValue)
	endian.PutInt64(dst[highestOffset:], h.HighestTrackableValue)
	endian.PutInt64(dst[totalCountOffset:], h.TotalCount)
}

// Bytes serializes the header into a new byte slice.
func (h EncodingHeader) Bytes() []byte {
	b := make([]byte, EncodingHeaderSize)
	h.PutBytes(b)

	return b
}

// ParseEncodingHeader parses an EncodingHeader from the head of data.
func ParseEncodingHeader(data []byte) (EncodingHeader, error) {
	if len(data) < EncodingHeaderSize {
		return EncodingHeader{}, fmt.Errorf("%w: encoding header needs %d bytes, got %d",
			errs.ErrInvalidArgument, EncodingHeaderSize, len(data))
	}

	h := EncodingHeader{}
	if err := h.Parse(data[:EncodingHeaderSize]); err != nil {
		return EncodingHeader{}, err
	}

	return h, nil
}
