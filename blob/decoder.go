package blob

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/hdrlog/endian"
	"github.com/arloliu/hdrlog/errs"
	"github.com/arloliu/hdrlog/histogram"
	"github.com/arloliu/hdrlog/internal/options"
	"github.com/arloliu/hdrlog/internal/pool"
	"github.com/arloliu/hdrlog/section"
)

// Decoder materializes histograms from compression envelopes.
//
// A Decoder is safe for concurrent use.
type Decoder struct {
	cfg     DecoderConfig
	readers sync.Pool
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...DecoderOption) (*Decoder, error) {
	cfg := defaultDecoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Decoder{cfg: *cfg}, nil
}

// Decode decodes one envelope into a new histogram.
func (d *Decoder) Decode(data []byte) (histogram.Mutable, error) {
	var h histogram.Mutable
	if err := d.DecodeInto(data, &h); err != nil {
		return nil, err
	}

	return h, nil
}

// DecodeInto decodes one envelope and stores the histogram in *out.
//
// *out must be nil on entry; an occupied slot is rejected so a caller's histogram is
// never overwritten. On error *out is left nil.
//
// Returns:
//   - errs.ErrInvalidArgument: nil or occupied slot, input shorter than the envelope
//     header, unknown version, negative length, bad histogram parameters
//   - errs.ErrCompressionCookieMismatch / errs.ErrEncodingCookieMismatch: foreign cookie
//   - errs.ErrOutOfMemory: counts array larger than the configured maximum
//   - errs.ErrDecompressFailed: corrupt or truncated payload
func (d *Decoder) DecodeInto(data []byte, out *histogram.Mutable) error {
	if out == nil {
		return fmt.Errorf("%w: nil output slot", errs.ErrInvalidArgument)
	}

	if *out != nil {
		return fmt.Errorf("%w: output slot already holds a histogram", errs.ErrInvalidArgument)
	}

	if len(data) < section.CompressionHeaderSize {
		return fmt.Errorf("%w: envelope needs %d bytes, got %d",
			errs.ErrInvalidArgument, section.CompressionHeaderSize, len(data))
	}

	envelope, err := section.ParseCompressionHeader(data)
	if err != nil {
		return err
	}

	// a declared length past the end feeds what is there and fails in the inflater
	payload := data[section.CompressionHeaderSize:]
	if int(envelope.Length) < len(payload) {
		payload = payload[:envelope.Length]
	}

	zr, err := d.getReader(payload)
	if err != nil {
		return err
	}

	h, err := d.inflate(zr)
	if err != nil {
		_ = zr.Close()
		return err
	}

	_ = zr.Close()
	d.readers.Put(zr)

	*out = h

	return nil
}

func (d *Decoder) getReader(payload []byte) (io.ReadCloser, error) {
	src := bytes.NewReader(payload)

	if pooled := d.readers.Get(); pooled != nil {
		resetter, ok := pooled.(zlib.Resetter)
		if !ok {
			return nil, fmt.Errorf("%w: pooled inflater cannot be reset", errs.ErrDecompressInit)
		}
		if err := resetter.Reset(src, nil); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrDecompressFailed, err)
		}

		return pooled.(io.ReadCloser), nil //nolint:forcetypeassert
	}

	// zlib.NewReader consumes the stream header, so a bad header is a data error
	zr, err := zlib.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompressFailed, err)
	}

	return zr, nil
}

func (d *Decoder) inflate(zr io.Reader) (histogram.Mutable, error) {
	var headerBuf [section.EncodingHeaderSize]byte
	if _, err := io.ReadFull(zr, headerBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: reading encoding header: %w", errs.ErrDecompressFailed, err)
	}

	header, err := section.ParseEncodingHeader(headerBuf[:])
	if err != nil {
		return nil, err
	}

	// Refuse oversized layouts before the factory allocates them. Parameters the
	// default layout rejects are left to the factory.
	if n, err := histogram.CountsLen(header.LowestTrackableValue, header.HighestTrackableValue,
		header.SignificantFigures); err == nil && n > d.cfg.maxCountsLen {
		return nil, fmt.Errorf("%w: histogram needs %d counts, limit is %d",
			errs.ErrOutOfMemory, n, d.cfg.maxCountsLen)
	}

	h, err := d.cfg.factory(header.LowestTrackableValue, header.HighestTrackableValue, header.SignificantFigures)
	if err != nil {
		if errs.CodeOf(err) == errs.CodeUnknown {
			err = fmt.Errorf("%w: %w", errs.ErrInvalidArgument, err)
		}

		return nil, err
	}

	counts := h.Counts()
	if len(counts) > d.cfg.maxCountsLen {
		return nil, fmt.Errorf("%w: histogram needs %d counts, limit is %d",
			errs.ErrOutOfMemory, len(counts), d.cfg.maxCountsLen)
	}

	if err := d.fillCounts(zr, counts); err != nil {
		return nil, err
	}
	h.SetTotalCount(header.TotalCount)

	return h, nil
}

// fillCounts inflates chunk by chunk until the end of the stream. Counts missing from a
// short stream stay zero; counts past the end of the array are drained and discarded.
func (d *Decoder) fillCounts(zr io.Reader, counts []int64) error {
	chunk, cleanup := pool.GetByteSlice(d.cfg.chunkSize * section.CountSize)
	defer cleanup()

	index := 0
	trailing := 0
	pending := 0 // bytes of a count split across reads

	for {
		n, err := zr.Read(chunk[pending:])
		n += pending

		stored := endian.FromWire(counts[index:], chunk[:n])
		index += stored

		whole := n / section.CountSize
		trailing += (whole - stored) * section.CountSize
		if trailing > d.cfg.maxTrailingBytes {
			return fmt.Errorf("%w: more than %d bytes after the last count",
				errs.ErrInvalidArgument, d.cfg.maxTrailingBytes)
		}

		pending = copy(chunk, chunk[whole*section.CountSize:n])

		if errors.Is(err, io.EOF) {
			// the inflater reports EOF only once the stream checksum matched
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrDecompressFailed, err)
		}
	}
}
