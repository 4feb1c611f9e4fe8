// Package hdrlog encodes HdrHistogram snapshots into a compact, versioned wire format
// and reads and writes the text interval logs built on it.
//
// A histogram is serialized as a compression envelope: an 8-byte header carrying a
// cookie and a length, followed by a zlib stream of a 32-byte metadata record and the
// big-endian bucket counts. Interval logs frame one base64 envelope per line, preceded
// by timestamps and an optional tag.
//
// # Basic Usage
//
// Encoding and decoding a single histogram:
//
//	h, _ := histogram.NewHDR(1, 3600000000, 3)
//	_ = h.RecordValues(5, 10, 15)
//
//	text, _ := hdrlog.EncodeToString(h)   // "HISTiQAAA..."
//	decoded, _ := hdrlog.DecodeString(text)
//
// Reading an interval log, compressed or not:
//
//	r, closer, err := hdrlog.OpenLog(f, logio.WithFailurePolicy(format.AbortOnInvalid))
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//	for r.Next() {
//	    rec := r.Record()
//	    fmt.Println(rec.Begin, rec.Histogram.TotalCount())
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers. For fine-grained control use
// the blob (envelopes), logio (log framing) and encoding (base64) packages directly.
package hdrlog

import (
	"io"
	"sync"

	"github.com/arloliu/hdrlog/blob"
	"github.com/arloliu/hdrlog/encoding"
	"github.com/arloliu/hdrlog/histogram"
	"github.com/arloliu/hdrlog/internal/hash"
	"github.com/arloliu/hdrlog/logio"
)

var (
	defaultEncoder = sync.OnceValues(func() (*blob.Encoder, error) { return blob.NewEncoder() })
	defaultDecoder = sync.OnceValues(func() (*blob.Decoder, error) { return blob.NewDecoder() })
)

// NewEncoder creates an envelope encoder.
func NewEncoder(opts ...blob.EncoderOption) (*blob.Encoder, error) {
	return blob.NewEncoder(opts...)
}

// NewDecoder creates an envelope decoder.
func NewDecoder(opts ...blob.DecoderOption) (*blob.Decoder, error) {
	return blob.NewDecoder(opts...)
}

// Encode serializes h into a compression envelope with default settings.
func Encode(h histogram.Histogram) ([]byte, error) {
	enc, err := defaultEncoder()
	if err != nil {
		return nil, err
	}

	return enc.Encode(h)
}

// Decode materializes a histogram from a compression envelope with default settings.
func Decode(data []byte) (histogram.Mutable, error) {
	dec, err := defaultDecoder()
	if err != nil {
		return nil, err
	}

	return dec.Decode(data)
}

// EncodeToString returns the base64 text of the envelope of h, as found in interval logs.
func EncodeToString(h histogram.Histogram) (string, error) {
	data, err := Encode(h)
	if err != nil {
		return "", err
	}

	return string(encoding.Base64Encode(data)), nil
}

// DecodeString decodes the base64 text of an envelope. Padding is accepted anywhere,
// as interval log readers do.
func DecodeString(text string) (histogram.Mutable, error) {
	src := []byte(text)
	dst := make([]byte, encoding.Base64DecodedLen(len(src)))
	if err := encoding.Base64DecodeInto(dst, src, false); err != nil {
		return nil, err
	}

	return Decode(dst)
}

// NewLogReader creates a reader of the plain text interval log in r.
func NewLogReader(r io.Reader, opts ...logio.ReaderOption) (*logio.Reader, error) {
	return logio.NewReader(r, opts...)
}

// OpenLog creates a reader of an interval log that may be stored compressed. The
// returned closer releases the decompressor; it does not close r.
func OpenLog(r io.Reader, opts ...logio.ReaderOption) (*logio.Reader, io.Closer, error) {
	plain, _, err := logio.OpenArchive(r)
	if err != nil {
		return nil, nil, err
	}

	lr, err := logio.NewReader(plain, opts...)
	if err != nil {
		_ = plain.Close()
		return nil, nil, err
	}

	return lr, plain, nil
}

// NewLogWriter creates a writer of an interval log.
func NewLogWriter(w io.Writer, opts ...logio.WriterOption) (*logio.Writer, error) {
	return logio.NewWriter(w, opts...)
}

// TagID returns the 64-bit identifier of a record tag, as used by logio.WithTags.
func TagID(tag string) uint64 {
	return hash.TagID(tag)
}
