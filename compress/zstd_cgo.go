//go:build cgo && gozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

type gozstdWriter struct {
	*gozstd.Writer
}

// Close finishes the frame and releases the C encoder.
func (w gozstdWriter) Close() error {
	err := w.Writer.Close()
	w.Release()

	return err
}

type gozstdReader struct {
	*gozstd.Reader
}

func (r gozstdReader) Close() error {
	r.Release()
	return nil
}

func newZstdWriter(w io.Writer) (StreamWriter, error) {
	return gozstdWriter{gozstd.NewWriterLevel(w, zstdLevel)}, nil
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	return gozstdReader{gozstd.NewReader(r)}, nil
}
