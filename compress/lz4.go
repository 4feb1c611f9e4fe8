package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

var lz4Magic = []byte{0x04, 0x22, 0x4d, 0x18}

func newLZ4Writer(w io.Writer) (StreamWriter, error) {
	return lz4.NewWriter(w), nil
}

func newLZ4Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
