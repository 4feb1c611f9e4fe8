package blob

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/hdrlog/endian"
	"github.com/arloliu/hdrlog/errs"
	"github.com/arloliu/hdrlog/histogram"
	"github.com/arloliu/hdrlog/internal/options"
	"github.com/arloliu/hdrlog/internal/pool"
	"github.com/arloliu/hdrlog/section"
)

// Encoder serializes histograms into compression envelopes.
//
// An Encoder is safe for concurrent use. Each call owns its output buffer; only the
// deflate state is pooled.
type Encoder struct {
	cfg     EncoderConfig
	writers sync.Pool
}

// NewEncoder creates an Encoder.
//
// Example:
//
//	enc, err := blob.NewEncoder(blob.WithCompressionLevel(6))
//	if err != nil {
//	    return err
//	}
//	data, err := enc.Encode(h)
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := defaultEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{cfg: *cfg}, nil
}

// sink is the output buffer seen by the deflate stream. It remembers the growth error
// because the compressor reports a generic write failure.
type sink struct {
	buf *pool.ByteBuffer
	err error
}

func (s *sink) Write(p []byte) (int, error) {
	n, err := s.buf.Write(p)
	if err != nil && s.err == nil {
		s.err = err
	}

	return n, err
}

// Encode serializes h into a new envelope.
//
// Returns:
//   - []byte: section.CompressionHeaderSize bytes of header followed by the compressed payload
//   - error: errs.ErrInvalidArgument for a nil histogram, errs.ErrOutOfMemory when the
//     output would exceed the max buffer size, errs.ErrCompressInit or
//     errs.ErrCompressFailed on deflate failures
func (e *Encoder) Encode(h histogram.Histogram) ([]byte, error) {
	return e.EncodeTo(nil, h)
}

// EncodeTo appends the envelope of h to dst and returns the extended slice.
// On error dst is returned unchanged.
func (e *Encoder) EncodeTo(dst []byte, h histogram.Histogram) ([]byte, error) {
	if h == nil {
		return dst, fmt.Errorf("%w: nil histogram", errs.ErrInvalidArgument)
	}

	out := &sink{buf: pool.NewBoundedByteBuffer(e.cfg.initialBufferSize, e.cfg.maxBufferSize)}
	if !out.buf.Extend(section.CompressionHeaderSize) {
		return dst, fmt.Errorf("%w: no room for the envelope header", errs.ErrOutOfMemory)
	}

	zw, err := e.getWriter(out)
	if err != nil {
		return dst, err
	}

	if err := e.writePayload(zw, out, h); err != nil {
		// a failed stream is not reused
		return dst, err
	}
	e.writers.Put(zw)

	compressedLen := out.buf.Len() - section.CompressionHeaderSize
	header := section.NewCompressionHeader(int32(compressedLen)) //nolint:gosec // bounded by maxBufferSize
	header.PutBytes(out.buf.B)

	if dst == nil {
		return out.buf.B, nil
	}

	return append(dst, out.buf.B...), nil
}

func (e *Encoder) getWriter(out *sink) (*zlib.Writer, error) {
	if zw, ok := e.writers.Get().(*zlib.Writer); ok {
		zw.Reset(out)
		return zw, nil
	}

	zw, err := zlib.NewWriterLevel(out, e.cfg.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompressInit, err)
	}

	return zw, nil
}

// writePayload streams the encoding header and the counts, then finishes the stream.
func (e *Encoder) writePayload(zw *zlib.Writer, out *sink, h histogram.Histogram) error {
	header := section.NewEncodingHeader(
		h.SignificantFigures(),
		h.LowestTrackableValue(),
		h.HighestTrackableValue(),
		h.TotalCount(),
	)

	var headerBuf [section.EncodingHeaderSize]byte
	header.PutBytes(headerBuf[:])

	if _, err := zw.Write(headerBuf[:]); err != nil {
		return compressError(out, err)
	}

	chunk, cleanup := pool.GetByteSlice(e.cfg.chunkSize * section.CountSize)
	defer cleanup()

	counts := h.Counts()
	for len(counts) > 0 {
		n := min(len(counts), e.cfg.chunkSize)
		written := endian.ToWire(chunk, counts[:n])
		if _, err := zw.Write(chunk[:written]); err != nil {
			return compressError(out, err)
		}
		counts = counts[n:]
	}

	if err := zw.Close(); err != nil {
		return compressError(out, err)
	}

	// Close may flush without surfacing the sink error on every code path
	if out.err != nil {
		return out.err
	}

	return nil
}

func compressError(out *sink, err error) error {
	if out.err != nil {
		return out.err
	}

	return fmt.Errorf("%w: %w", errs.ErrCompressFailed, err)
}
