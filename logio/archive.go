package logio

import (
	"bufio"
	"io"

	"github.com/arloliu/hdrlog/compress"
	"github.com/arloliu/hdrlog/format"
)

// OpenArchive returns a reader of the plain text of a log that may be stored
// compressed. The container is detected from the leading bytes of r.
//
// Closing the returned reader does not close r.
func OpenArchive(r io.Reader) (io.ReadCloser, format.CompressionType, error) {
	br := bufio.NewReader(r)

	ctype, err := compress.Detect(br)
	if err != nil {
		return nil, format.CompressionNone, err
	}

	rc, err := compress.NewStreamReader(br, ctype)
	if err != nil {
		return nil, ctype, err
	}

	return rc, ctype, nil
}

// CreateArchive returns a writer that stores a log in a ctype container on w. The
// returned writer must be closed to finish the container.
func CreateArchive(w io.Writer, ctype format.CompressionType) (compress.StreamWriter, error) {
	return compress.NewStreamWriter(w, ctype)
}
