package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

func newGzipWriter(w io.Writer) (StreamWriter, error) {
	return gzip.NewWriterLevel(w, gzip.DefaultCompression)
}

func newGzipReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}
