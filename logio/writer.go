package logio

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/arloliu/hdrlog/blob"
	"github.com/arloliu/hdrlog/encoding"
	"github.com/arloliu/hdrlog/errs"
	"github.com/arloliu/hdrlog/histogram"
	"github.com/arloliu/hdrlog/internal/options"
	"github.com/arloliu/hdrlog/internal/pool"
)

// WriterConfig holds the Writer settings.
type WriterConfig struct {
	encoder *blob.Encoder
	legend  bool
}

// WriterOption is a functional option for configuring a Writer.
type WriterOption = options.Option[*WriterConfig]

// WithEncoder sets the envelope encoder.
func WithEncoder(encoder *blob.Encoder) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if encoder == nil {
			return fmt.Errorf("%w: nil encoder", errs.ErrInvalidArgument)
		}
		c.encoder = encoder

		return nil
	})
}

// WithLegend controls whether WriteHeader emits the CSV legend line. Enabled by default.
func WithLegend(enabled bool) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.legend = enabled
	})
}

// Writer writes a histogram interval log. It is not safe for concurrent use.
type Writer struct {
	cfg WriterConfig
	bw  *bufio.Writer

	envelope []byte
}

// NewWriter creates a Writer that writes to w. Call Flush when done.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg := &WriterConfig{legend: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.encoder == nil {
		enc, err := blob.NewEncoder()
		if err != nil {
			return nil, err
		}
		cfg.encoder = enc
	}

	return &Writer{
		cfg: *cfg,
		bw:  bufio.NewWriter(w),
	}, nil
}

// WriteHeader writes the comment header. A zero version is written as
// DefaultMajorVersion.DefaultMinorVersion; StartTime and BaseTime comments are only
// written when set.
func (w *Writer) WriteHeader(h Header) error {
	major, minor := h.MajorVersion, h.MinorVersion
	if major == 0 && minor == 0 {
		major, minor = DefaultMajorVersion, DefaultMinorVersion
	}

	if _, err := fmt.Fprintf(w.bw, "#[Histogram log format version %d.%d]\n", major, minor); err != nil {
		return err
	}

	if h.StartTimeMs != 0 {
		start := time.UnixMilli(h.StartTimeMs).UTC()
		if _, err := fmt.Fprintf(w.bw, "#[StartTime: %s (seconds since epoch), %s]\n",
			millisStamp(h.StartTimeMs), start.Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}

	if h.BaseTimeMs != 0 {
		if _, err := fmt.Fprintf(w.bw, "#[BaseTime: %s (seconds since epoch)]\n", millisStamp(h.BaseTimeMs)); err != nil {
			return err
		}
	}

	if w.cfg.legend {
		if _, err := w.bw.WriteString(Legend + "\n"); err != nil {
			return err
		}
	}

	return nil
}

// WriteComment writes a free form comment line.
func (w *Writer) WriteComment(text string) error {
	_, err := fmt.Fprintf(w.bw, "#%s\n", text)
	return err
}

// WriteRecord encodes h and writes it as a data line framed by the stamps and tag of
// rec. rec.Payload and rec.Histogram are ignored.
func (w *Writer) WriteRecord(rec Record, h histogram.Histogram) error {
	if !validTag(rec.Tag) {
		return fmt.Errorf("%w: tag %q contains a separator", errs.ErrInvalidArgument, rec.Tag)
	}

	envelope, err := w.cfg.encoder.EncodeTo(w.envelope[:0], h)
	if err != nil {
		return err
	}
	w.envelope = envelope

	line := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(line)

	b := line.B
	if rec.Tag != "" {
		b = append(b, tagPrefix...)
		b = append(b, rec.Tag...)
		b = append(b, ',')
	}
	b = appendStamp(b, rec.Begin)
	b = append(b, ',')
	b = appendStamp(b, rec.End)
	b = append(b, ',')
	b = appendStamp(b, rec.IntervalMax)
	b = append(b, ',')

	start := len(b)
	n := encoding.Base64EncodedLen(len(envelope))
	b = slices.Grow(b, n+1)[:start+n]
	if err := encoding.Base64EncodeInto(b[start:], envelope); err != nil {
		return err
	}
	b = append(b, '\n')
	line.B = b

	_, err = line.WriteTo(w.bw)

	return err
}

// Flush writes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

func millisStamp(ms int64) string {
	return string(appendStamp(nil, Stamp{Sec: ms / 1000, Frac: ms % 1000}))
}
