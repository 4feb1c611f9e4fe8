package compress

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/hdrlog/format"
)

// StreamWriter is a compressing writer.
type StreamWriter interface {
	io.WriteCloser
	// Flush writes any buffered data to the underlying writer.
	Flush() error
}

type streamCodec struct {
	magic     []byte
	newWriter func(w io.Writer) (StreamWriter, error)
	newReader func(r io.Reader) (io.ReadCloser, error)
}

// builtinCodecs holds the codec of every compressed container. zstd is registered by
// the build-specific file.
var builtinCodecs = map[format.CompressionType]streamCodec{
	format.CompressionGzip: {magic: gzipMagic, newWriter: newGzipWriter, newReader: newGzipReader},
	format.CompressionS2:   {magic: s2Magic, newWriter: newS2Writer, newReader: newS2Reader},
	format.CompressionLZ4:  {magic: lz4Magic, newWriter: newLZ4Writer, newReader: newLZ4Reader},
	format.CompressionZstd: {magic: zstdMagic, newWriter: newZstdWriter, newReader: newZstdReader},
}

// detectOrder lists the containers tried by Detect.
var detectOrder = []format.CompressionType{
	format.CompressionGzip,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

// maxMagicLen is the longest magic prefix Detect needs to see.
const maxMagicLen = 4

// NewStreamWriter wraps w in a compressing writer of type ctype.
func NewStreamWriter(w io.Writer, ctype format.CompressionType) (StreamWriter, error) {
	if ctype == format.CompressionNone {
		return nopStreamWriter{w: w}, nil
	}

	codec, ok := builtinCodecs[ctype]
	if !ok {
		return nil, fmt.Errorf("unsupported compression type: %s", ctype)
	}

	return codec.newWriter(w)
}

// NewStreamReader wraps r in a decompressing reader of type ctype.
//
// Closing the returned reader releases decoder resources but does not close r.
func NewStreamReader(r io.Reader, ctype format.CompressionType) (io.ReadCloser, error) {
	if ctype == format.CompressionNone {
		return io.NopCloser(r), nil
	}

	codec, ok := builtinCodecs[ctype]
	if !ok {
		return nil, fmt.Errorf("unsupported compression type: %s", ctype)
	}

	return codec.newReader(r)
}

// Detect identifies the container of the stream buffered in br by its magic bytes,
// without consuming any input. Streams that match no known magic are
// format.CompressionNone.
func Detect(br *bufio.Reader) (format.CompressionType, error) {
	head, err := br.Peek(maxMagicLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return format.CompressionNone, err
	}

	for _, ctype := range detectOrder {
		if bytes.HasPrefix(head, builtinCodecs[ctype].magic) {
			return ctype, nil
		}
	}

	return format.CompressionNone, nil
}

// Compress compresses data as a complete container of type ctype.
func Compress(data []byte, ctype format.CompressionType) ([]byte, error) {
	var buf bytes.Buffer

	w, err := NewStreamWriter(&buf, ctype)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%s compression failed: %w", ctype, err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s compression failed: %w", ctype, err)
	}

	return buf.Bytes(), nil
}

// Decompress detects the container of data and returns its decompressed content.
func Decompress(data []byte) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(data))

	ctype, err := Detect(br)
	if err != nil {
		return nil, err
	}

	r, err := NewStreamReader(br, ctype)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", ctype, err)
	}

	return out, nil
}

type nopStreamWriter struct {
	w io.Writer
}

func (n nopStreamWriter) Write(p []byte) (int, error) { return n.w.Write(p) }
func (nopStreamWriter) Flush() error                  { return nil }
func (nopStreamWriter) Close() error                  { return nil }
