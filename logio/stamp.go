package logio

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/hdrlog/errs"
)

// Stamp is a seconds.fraction pair as written in a log line.
//
// The fraction is kept as the integer that was written, so "1.007" is {1, 7} and
// "1.5" is {1, 5}. Writers emit three fraction digits, which makes Frac milliseconds.
type Stamp struct {
	Sec  int64
	Frac int64
}

// StampFromDuration converts d to a stamp with millisecond fraction.
func StampFromDuration(d time.Duration) Stamp {
	ms := d.Milliseconds()
	return Stamp{Sec: ms / 1000, Frac: ms % 1000}
}

// Millis returns Sec*1000 + Frac.
func (s Stamp) Millis() int64 {
	return s.Sec*1000 + s.Frac
}

func (s Stamp) String() string {
	return fmt.Sprintf("%d.%03d", s.Sec, s.Frac)
}

// appendStamp appends the text form of s to dst.
func appendStamp(dst []byte, s Stamp) []byte {
	dst = strconv.AppendInt(dst, s.Sec, 10)
	dst = append(dst, '.')
	if s.Frac >= 0 && s.Frac < 100 {
		dst = append(dst, '0')
		if s.Frac < 10 {
			dst = append(dst, '0')
		}
	}

	return strconv.AppendInt(dst, s.Frac, 10)
}

// parseStamp parses "SECONDS.FRACTION". Both parts are decimal integers.
func parseStamp(field string) (Stamp, error) {
	sec, frac, ok := strings.Cut(field, ".")
	if !ok {
		return Stamp{}, fmt.Errorf("%w: stamp %q has no fraction", errs.ErrInvalidArgument, field)
	}

	s, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return Stamp{}, fmt.Errorf("%w: stamp %q: %w", errs.ErrInvalidArgument, field, err)
	}

	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || f < 0 || strings.HasPrefix(frac, "+") {
		return Stamp{}, fmt.Errorf("%w: stamp %q has an invalid fraction", errs.ErrInvalidArgument, field)
	}

	return Stamp{Sec: s, Frac: f}, nil
}
