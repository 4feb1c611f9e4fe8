// Package report renders decoded interval histograms.
//
// Every reporter implements Sink and can be handed to logio.Reader.Scan. Percentile
// computation is left to hdrhistogram-go; reporters only format its output.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/arloliu/hdrlog/histogram"
	"github.com/arloliu/hdrlog/logio"
)

// Sink consumes decoded log records.
type Sink interface {
	Report(rec logio.Record) error
}

var (
	_ Sink       = (*CSVPercentiles)(nil)
	_ Sink       = (*Classic)(nil)
	_ Sink       = (*Summary)(nil)
	_ logio.Sink = (*CSVPercentiles)(nil)
)

// CSVHeader is the column line written before each CSV percentile table.
const CSVHeader = `"Value","Percentile","TotalCount","1/(1-Percentile)"`

// CSVPercentiles writes one CSV percentile table per record.
type CSVPercentiles struct {
	w          *bufio.Writer
	valueScale float64
}

// NewCSVPercentiles creates a CSV reporter. Values are divided by valueScale.
func NewCSVPercentiles(w io.Writer, valueScale float64) *CSVPercentiles {
	return &CSVPercentiles{w: bufio.NewWriter(w), valueScale: normalizeScale(valueScale)}
}

func (c *CSVPercentiles) Report(rec logio.Record) error {
	hdr, err := histogram.AsHDR(rec.Histogram)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(c.w, CSVHeader); err != nil {
		return err
	}

	prec := int(hdr.SignificantFigures())
	for _, b := range hdr.CumulativeDistribution() {
		q := b.Quantile / 100
		if _, err := fmt.Fprintf(c.w, "%.*f,%f,%d,%s\n",
			prec, float64(b.ValueAt)/c.valueScale, q, b.Count, inverseTail(q)); err != nil {
			return err
		}
	}

	return c.w.Flush()
}

// Classic writes hdrhistogram-go's percentile table for each record.
type Classic struct {
	w          io.Writer
	ticks      int32
	valueScale float64
}

// NewClassic creates a table reporter with ticksPerHalfDistance percentile steps.
func NewClassic(w io.Writer, ticksPerHalfDistance int32, valueScale float64) *Classic {
	if ticksPerHalfDistance <= 0 {
		ticksPerHalfDistance = 5
	}

	return &Classic{w: w, ticks: ticksPerHalfDistance, valueScale: normalizeScale(valueScale)}
}

func (c *Classic) Report(rec logio.Record) error {
	hdr, err := histogram.AsHDR(rec.Histogram)
	if err != nil {
		return err
	}

	if rec.Tag != "" {
		if _, err := fmt.Fprintf(c.w, "# Tag=%s ", rec.Tag); err != nil {
			return err
		}
	} else if _, err := io.WriteString(c.w, "# "); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.w, "interval %s +%s\n", rec.Begin, rec.End); err != nil {
		return err
	}

	return hdr.PercentilesPrint(c.w, c.ticks, c.valueScale)
}

// Summary writes one line per record with its count and headline percentiles.
type Summary struct {
	w          *bufio.Writer
	valueScale float64
}

// NewSummary creates a one-line-per-record reporter.
func NewSummary(w io.Writer, valueScale float64) *Summary {
	return &Summary{w: bufio.NewWriter(w), valueScale: normalizeScale(valueScale)}
}

func (s *Summary) Report(rec logio.Record) error {
	hdr, err := histogram.AsHDR(rec.Histogram)
	if err != nil {
		return err
	}

	tag := rec.Tag
	if tag == "" {
		tag = "-"
	}

	scaled := func(q float64) float64 {
		return float64(hdr.ValueAtQuantile(q)) / s.valueScale
	}

	if _, err := fmt.Fprintf(s.w, "%s\t%s\tcount=%d\tp50=%.3f\tp90=%.3f\tp99=%.3f\tmax=%.3f\n",
		rec.Begin, tag, rec.Histogram.TotalCount(),
		scaled(50), scaled(90), scaled(99), float64(hdr.Max())/s.valueScale); err != nil {
		return err
	}

	return s.w.Flush()
}

func inverseTail(q float64) string {
	if q >= 1 {
		return "Infinity"
	}

	return fmt.Sprintf("%.2f", 1/(1-q))
}

func normalizeScale(scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}

	return scale
}
