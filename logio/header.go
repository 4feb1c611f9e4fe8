package logio

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

const (
	DefaultMajorVersion = 1
	DefaultMinorVersion = 2

	// Legend is the CSV column header line that follows the comments.
	Legend = `"StartTimestamp","Interval_Length","Interval_Max","Interval_Compressed_Histogram"`
)

var (
	versionPattern   = regexp.MustCompile(`^#\[Histogram log format version (\d+)\.(\d+)\]`)
	startTimePattern = regexp.MustCompile(`^#\[StartTime: (-?\d+)\.(\d+)`)
	baseTimePattern  = regexp.MustCompile(`^#\[BaseTime: (-?\d+)\.(\d+)`)

	legendPrefix = []byte(`"StartTimestamp"`)
)

// Header holds what the comment lines of a log declare. Fields of comments that are
// absent stay zero.
type Header struct {
	MajorVersion int
	MinorVersion int
	// StartTimeMs is SECONDS*1000 + FRACTION from #[StartTime: SECONDS.FRACTION ...].
	StartTimeMs int64
	// BaseTimeMs is SECONDS*1000 + FRACTION from #[BaseTime: SECONDS.FRACTION ...].
	BaseTimeMs int64
	// HasLegend reports that the CSV legend line followed the comments.
	HasLegend bool
}

// ParseHeader reads the header of the log in r.
//
// r is read through a buffer, so it is positioned past the header afterwards. Use
// NewReader to continue with the data lines.
func ParseHeader(r io.Reader) (Header, error) {
	lr, err := NewReader(r)
	if err != nil {
		return Header{}, err
	}

	return lr.ReadHeader()
}

// isComment reports whether the first non-whitespace byte of line is '#'.
func isComment(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '#'
}

func isLegend(line []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(line), legendPrefix)
}

func isBlank(line []byte) bool {
	return len(bytes.TrimSpace(line)) == 0
}

// scanComment applies one comment line to h. Unknown comments are ignored.
func (h *Header) scanComment(line []byte) {
	line = bytes.TrimLeft(line, " \t")

	if m := versionPattern.FindSubmatch(line); m != nil {
		major, errMajor := strconv.Atoi(string(m[1]))
		minor, errMinor := strconv.Atoi(string(m[2]))
		if errMajor == nil && errMinor == nil {
			h.MajorVersion, h.MinorVersion = major, minor
		}

		return
	}

	if ms, ok := scanTime(startTimePattern, line); ok {
		h.StartTimeMs = ms
		return
	}

	if ms, ok := scanTime(baseTimePattern, line); ok {
		h.BaseTimeMs = ms
	}
}

func scanTime(pattern *regexp.Regexp, line []byte) (int64, bool) {
	m := pattern.FindSubmatch(line)
	if m == nil {
		return 0, false
	}

	sec, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		return 0, false
	}

	frac, err := strconv.ParseInt(string(m[2]), 10, 64)
	if err != nil {
		return 0, false
	}

	return sec*1000 + frac, true
}

// Version returns the declared format version as "MAJOR.MINOR".
func (h Header) Version() string {
	return fmt.Sprintf("%d.%d", h.MajorVersion, h.MinorVersion)
}
