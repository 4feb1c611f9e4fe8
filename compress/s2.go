package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// s2Magic is the stream identifier chunk header shared by S2 and Snappy framed streams.
var s2Magic = []byte{0xff, 0x06, 0x00, 0x00}

func newS2Writer(w io.Writer) (StreamWriter, error) {
	return s2.NewWriter(w, s2.WriterConcurrency(1)), nil
}

func newS2Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}
