package logio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/hdrlog/blob"
	"github.com/arloliu/hdrlog/encoding"
	"github.com/arloliu/hdrlog/errs"
	"github.com/arloliu/hdrlog/format"
	"github.com/arloliu/hdrlog/histogram"
)

type interval struct {
	tag    string
	values []int64
}

func newHistogram(t *testing.T, values ...int64) *histogram.HDR {
	t.Helper()

	h, err := histogram.NewHDR(1, 3600000000, 3)
	require.NoError(t, err)
	require.NoError(t, h.RecordValues(values...))

	return h
}

// writeLog writes a log with one line per interval and returns its text and histograms.
func writeLog(t *testing.T, header Header, intervals ...interval) (string, []*histogram.HDR) {
	t.Helper()

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(header))

	hists := make([]*histogram.HDR, 0, len(intervals))
	for i, iv := range intervals {
		h := newHistogram(t, iv.values...)
		rec := Record{
			Tag:         iv.tag,
			Begin:       Stamp{Sec: int64(i), Frac: 127},
			End:         Stamp{Sec: 1, Frac: 7},
			IntervalMax: Stamp{Sec: 2, Frac: 769},
		}
		require.NoError(t, w.WriteRecord(rec, h))
		hists = append(hists, h)
	}
	require.NoError(t, w.Flush())

	return buf.String(), hists
}

func readAll(t *testing.T, log string, opts ...ReaderOption) ([]Record, *Reader) {
	t.Helper()

	r, err := NewReader(strings.NewReader(log), opts...)
	require.NoError(t, err)

	var records []Record
	for r.Next() {
		records = append(records, r.Record())
	}

	return records, r
}

func TestReader_RoundTrip(t *testing.T) {
	header := Header{StartTimeMs: 1441812123250, BaseTimeMs: 1441812000000}
	log, hists := writeLog(t, header,
		interval{values: []int64{5}},
		interval{tag: "db", values: []int64{1, 2, 3, 1000}},
		interval{values: []int64{3599999999}},
	)

	records, r := readAll(t, log)
	require.NoError(t, r.Err())
	require.Len(t, records, 3)

	got := r.Header()
	require.Equal(t, DefaultMajorVersion, got.MajorVersion)
	require.Equal(t, DefaultMinorVersion, got.MinorVersion)
	require.Equal(t, header.StartTimeMs, got.StartTimeMs)
	require.Equal(t, header.BaseTimeMs, got.BaseTimeMs)
	require.True(t, got.HasLegend)

	for i, rec := range records {
		require.True(t, histogram.Equal(hists[i], rec.Histogram), "record %d", i)
		require.Equal(t, Stamp{Sec: int64(i), Frac: 127}, rec.Begin)
		require.Equal(t, Stamp{Sec: 1, Frac: 7}, rec.End)
		require.Equal(t, Stamp{Sec: 2, Frac: 769}, rec.IntervalMax)
		require.Equal(t, 5+i, rec.Line)
	}
	require.Equal(t, "db", records[1].Tag)
	require.Empty(t, records[0].Tag)

	stats := r.Stats()
	require.Equal(t, 7, stats.Lines)
	require.Equal(t, 3, stats.Records)
	require.Zero(t, stats.Skipped)
}

func TestReader_PayloadPrefix(t *testing.T) {
	log, _ := writeLog(t, Header{}, interval{values: []int64{5}})

	records, r := readAll(t, log)
	require.NoError(t, r.Err())
	require.Len(t, records, 1)
	require.True(t, bytes.HasPrefix(records[0].Payload, []byte("HIST")))
	require.Equal(t, int64(1), records[0].Histogram.Counts()[5])
}

func TestReader_WithoutLegend(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WithLegend(false))
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(Header{MajorVersion: 1, MinorVersion: 3}))
	require.NoError(t, w.WriteRecord(Record{}, newHistogram(t, 42)))
	require.NoError(t, w.Flush())

	records, r := readAll(t, buf.String())
	require.NoError(t, r.Err())
	require.Len(t, records, 1)
	require.False(t, r.Header().HasLegend)
	require.Equal(t, 2, records[0].Line)
	require.Equal(t, int64(1), records[0].Histogram.TotalCount())
}

func TestReader_BlankAndCommentLines(t *testing.T) {
	log, _ := writeLog(t, Header{}, interval{values: []int64{1}}, interval{values: []int64{2}})
	lines := strings.SplitAfter(log, "\n")
	mixed := strings.Join(lines[:3], "") + "\n   \n#[late comment]\n" + strings.Join(lines[3:], "") + "\n\n"

	records, r := readAll(t, mixed)
	require.NoError(t, r.Err())
	require.Len(t, records, 2)
}

func TestReader_NoTrailingNewline(t *testing.T) {
	log, _ := writeLog(t, Header{}, interval{values: []int64{1}})

	records, r := readAll(t, strings.TrimSuffix(log, "\n"))
	require.NoError(t, r.Err())
	require.Len(t, records, 1)
}

func TestReader_MalformedLineAborts(t *testing.T) {
	log, _ := writeLog(t, Header{}, interval{values: []int64{1}}, interval{values: []int64{2}})

	malformed := []string{
		"this is not a data line",
		"0.127,1.007,AAAA",
		"0.127,1.007,2.769,",
		"0.127,1,2.769,AAAA",
		"x.127,1.007,2.769,AAAA",
		"Tag=only",
	}

	for _, bad := range malformed {
		t.Run(bad, func(t *testing.T) {
			lines := strings.SplitAfter(log, "\n")
			broken := strings.Join(lines[:3], "") + bad + "\n" + strings.Join(lines[3:], "")

			records, r := readAll(t, broken, WithFailurePolicy(format.SkipInvalid))
			require.Len(t, records, 1)
			require.ErrorIs(t, r.Err(), errs.ErrInvalidArgument)
			require.Contains(t, r.Err().Error(), "line 4")
		})
	}
}

func corruptLog(t *testing.T) string {
	t.Helper()

	log, _ := writeLog(t, Header{},
		interval{values: []int64{1}},
		interval{values: []int64{2}},
		interval{values: []int64{3}},
	)
	lines := strings.SplitAfter(log, "\n")

	// line 4: valid base64 of a foreign cookie, line 5: not base64 at all
	foreign := string(encoding.Base64Encode([]byte{0x1c, 0x84, 0x93, 0x04, 0, 0, 0, 0}))
	lines[3] = "1.000,1.000,1.000," + foreign + "\n"
	lines[4] = "2.000,1.000,1.000,@@@@\n"

	return strings.Join(lines, "")
}

func TestReader_FailurePolicy(t *testing.T) {
	t.Run("Skip", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)

		records, r := readAll(t, corruptLog(t), WithLogger(zap.New(core)))
		require.NoError(t, r.Err())
		require.Len(t, records, 1)
		require.Equal(t, 2, r.Stats().Skipped)

		require.Equal(t, 2, logs.Len())
		entry := logs.All()[0]
		require.Equal(t, int64(4), entry.ContextMap()["line"])
	})

	t.Run("Abort", func(t *testing.T) {
		records, r := readAll(t, corruptLog(t), WithFailurePolicy(format.AbortOnInvalid))
		require.Len(t, records, 1)
		require.ErrorIs(t, r.Err(), errs.ErrCompressionCookieMismatch)
		require.Contains(t, r.Err().Error(), "line 4")
	})

	t.Run("Invalid policy", func(t *testing.T) {
		_, err := NewReader(strings.NewReader(""), WithFailurePolicy(format.FailurePolicy(0)))
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
	})
}

func TestReader_StrictBase64(t *testing.T) {
	log, hists := writeLog(t, Header{}, interval{values: []int64{5}})
	lines := strings.SplitAfter(log, "\n")

	// an 'A' decodes to zero, like a lenient '='; stay clear of the final group
	data := lines[2]
	start := strings.LastIndexByte(data, ',') + 1
	idx := strings.IndexByte(data[start:len(data)-9], 'A')
	require.GreaterOrEqual(t, idx, 0)
	pos := start + idx
	lines[2] = data[:pos] + "=" + data[pos+1:]
	padded := strings.Join(lines, "")

	records, r := readAll(t, padded)
	require.NoError(t, r.Err())
	require.Len(t, records, 1)
	require.True(t, histogram.Equal(hists[0], records[0].Histogram))

	records, r = readAll(t, padded, WithStrictBase64(true), WithFailurePolicy(format.AbortOnInvalid))
	require.Empty(t, records)
	require.ErrorIs(t, r.Err(), errs.ErrInvalidArgument)
}

func TestReader_Tags(t *testing.T) {
	log, _ := writeLog(t, Header{},
		interval{tag: "db", values: []int64{1}},
		interval{tag: "web", values: []int64{2}},
		interval{values: []int64{3}},
		interval{tag: "db", values: []int64{4}},
	)

	records, r := readAll(t, log, WithTags("db"))
	require.NoError(t, r.Err())
	require.Len(t, records, 2)
	for _, rec := range records {
		require.Equal(t, "db", rec.Tag)
	}
	require.Equal(t, 2, r.Stats().Filtered)

	records, r = readAll(t, log, WithTags(""))
	require.NoError(t, r.Err())
	require.Len(t, records, 1)
	require.Empty(t, records[0].Tag)

	records, r = readAll(t, log, WithTags())
	require.NoError(t, r.Err())
	require.Len(t, records, 4)
}

func TestReader_MaxLineLength(t *testing.T) {
	log, _ := writeLog(t, Header{}, interval{values: []int64{1}})

	_, r := readAll(t, log, WithMaxLineLength(32))
	require.ErrorIs(t, r.Err(), errs.ErrOutOfMemory)
}

func TestReader_CustomDecoder(t *testing.T) {
	log, _ := writeLog(t, Header{}, interval{values: []int64{1}})

	dec, err := blob.NewDecoder(blob.WithMaxCountsLen(16))
	require.NoError(t, err)

	_, r := readAll(t, log, WithDecoder(dec), WithFailurePolicy(format.AbortOnInvalid))
	require.ErrorIs(t, r.Err(), errs.ErrOutOfMemory)

	_, err = NewReader(strings.NewReader(log), WithDecoder(nil))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestReader_Scan(t *testing.T) {
	log, _ := writeLog(t, Header{},
		interval{values: []int64{1}},
		interval{values: []int64{2}},
		interval{values: []int64{3}},
	)

	t.Run("All records", func(t *testing.T) {
		r, err := NewReader(strings.NewReader(log))
		require.NoError(t, err)

		var totals []int64
		stats, err := r.Scan(context.Background(), SinkFunc(func(rec Record) error {
			totals = append(totals, rec.Histogram.TotalCount())
			return nil
		}))
		require.NoError(t, err)
		require.Equal(t, []int64{1, 1, 1}, totals)
		require.Equal(t, 3, stats.Records)
	})

	t.Run("Sink error", func(t *testing.T) {
		r, err := NewReader(strings.NewReader(log))
		require.NoError(t, err)

		sinkErr := errors.New("sink full")
		_, err = r.Scan(context.Background(), SinkFunc(func(rec Record) error {
			if rec.Line == 5 {
				return sinkErr
			}
			return nil
		}))
		require.ErrorIs(t, err, sinkErr)
		require.Contains(t, err.Error(), "line 5")
	})

	t.Run("Canceled context", func(t *testing.T) {
		r, err := NewReader(strings.NewReader(log))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		count := 0
		stats, err := r.Scan(ctx, SinkFunc(func(Record) error {
			count++
			cancel()
			return nil
		}))
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 1, count)
		require.Equal(t, 1, stats.Records)
	})
}

func TestReader_LongLines(t *testing.T) {
	values := make([]int64, 0, 20000)
	for i := int64(1); i <= 20000; i++ {
		values = append(values, i*180000)
	}
	log, hists := writeLog(t, Header{}, interval{values: values})

	lines := strings.SplitAfter(log, "\n")
	require.Greater(t, len(lines[2]), 4096)

	records, r := readAll(t, log)
	require.NoError(t, r.Err())
	require.Len(t, records, 1)
	require.True(t, histogram.Equal(hists[0], records[0].Histogram))
}

func ExampleReader() {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf)
	_ = w.WriteHeader(Header{StartTimeMs: 1441812123250})

	h, _ := histogram.NewHDR(1, 3600000000, 3)
	_ = h.RecordValues(5, 10, 15)
	_ = w.WriteRecord(Record{End: Stamp{Sec: 1}}, h)
	_ = w.Flush()

	r, _ := NewReader(&buf)
	for r.Next() {
		rec := r.Record()
		fmt.Println(rec.Line, rec.Histogram.TotalCount())
	}
	fmt.Println(r.Header().StartTimeMs)
	// Output:
	// 4 3
	// 1441812123250
}
