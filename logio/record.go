package logio

import (
	"bytes"
	"fmt"

	"github.com/arloliu/hdrlog/errs"
	"github.com/arloliu/hdrlog/histogram"
)

const tagPrefix = "Tag="

// Record is one interval of a log.
type Record struct {
	// Line is the 1-based line number the record was read from.
	Line int
	// Tag is the value of the optional Tag= field, empty for untagged intervals.
	Tag         string
	Begin       Stamp
	End         Stamp
	IntervalMax Stamp
	// Payload is the base64 text of the envelope. It is only valid until the next call
	// to Reader.Next.
	Payload []byte
	// Histogram is the decoded interval histogram.
	Histogram histogram.Mutable
}

// dataLine is the unvalidated split of a data line.
type dataLine struct {
	tag     []byte
	stamps  [3][]byte
	payload []byte
}

// splitDataLine splits "[Tag=NAME,]s.f,s.f,s.f,BASE64". The payload ends at the
// first whitespace.
func splitDataLine(line []byte) (dataLine, error) {
	var dl dataLine

	line = bytes.TrimLeft(line, " \t")
	if bytes.HasPrefix(line, []byte(tagPrefix)) {
		tag, rest, ok := bytes.Cut(line[len(tagPrefix):], []byte{','})
		if !ok {
			return dataLine{}, fmt.Errorf("%w: tag field is not followed by a stamp", errs.ErrInvalidArgument)
		}
		dl.tag = tag
		line = rest
	}

	for i := range dl.stamps {
		field, rest, ok := bytes.Cut(line, []byte{','})
		if !ok {
			return dataLine{}, fmt.Errorf("%w: expected 4 fields", errs.ErrInvalidArgument)
		}
		dl.stamps[i] = field
		line = rest
	}

	if end := bytes.IndexAny(line, " \t\r\n"); end >= 0 {
		line = line[:end]
	}
	if len(line) == 0 {
		return dataLine{}, fmt.Errorf("%w: missing histogram payload", errs.ErrInvalidArgument)
	}
	dl.payload = line

	return dl, nil
}

// parseStamps validates the three stamps of dl and stores them in rec.
func (dl dataLine) parseStamps(rec *Record) error {
	stamps := [3]*Stamp{&rec.Begin, &rec.End, &rec.IntervalMax}
	for i, field := range dl.stamps {
		s, err := parseStamp(string(field))
		if err != nil {
			return err
		}
		*stamps[i] = s
	}

	return nil
}

// validTag reports whether tag can be written without breaking the line framing.
func validTag(tag string) bool {
	for i := 0; i < len(tag); i++ {
		switch tag[i] {
		case ',', ' ', '\t', '\r', '\n':
			return false
		}
	}

	return true
}
