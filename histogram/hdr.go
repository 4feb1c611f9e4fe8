package histogram

import (
	"fmt"
	"io"
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/arloliu/hdrlog/errs"
)

// HDR adapts *hdrhistogram.Histogram to the Mutable interface.
//
// The counts array and total count are owned by the adapter; the engine histogram is
// rebuilt from them on demand by Engine and cached until SetTotalCount or a record
// call changes them.
//
// Reading the parameters and counts, and querying, is safe from several goroutines.
// Recording or writing the counts is not, and must not overlap with any other use.
type HDR struct {
	lowest     int64
	highest    int64
	sigFigs    int32
	totalCount int64
	counts     []int64

	mu     sync.Mutex
	engine *hdrhistogram.Histogram
}

var _ Mutable = (*HDR)(nil)

// NewHDR creates an empty histogram tracking [lowest, highest] with sigFigs
// significant decimal digits.
func NewHDR(lowest, highest int64, sigFigs int32) (*HDR, error) {
	engine, err := newEngine(lowest, highest, sigFigs)
	if err != nil {
		return nil, err
	}

	return FromEngine(engine), nil
}

// FromEngine snapshots an existing hdrhistogram-go histogram.
//
// Later changes to engine are not reflected in the returned adapter.
func FromEngine(engine *hdrhistogram.Histogram) *HDR {
	snap := engine.Export()

	return &HDR{
		lowest:     snap.LowestTrackableValue,
		highest:    snap.HighestTrackableValue,
		sigFigs:    int32(snap.SignificantFigures),
		totalCount: engine.TotalCount(),
		counts:     snap.Counts,
	}
}

// newEngine turns the panics of hdrhistogram.New into errors.
func newEngine(lowest, highest int64, sigFigs int32) (engine *hdrhistogram.Histogram, err error) {
	if err := ValidateParams(lowest, highest, sigFigs); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			engine = nil
			err = fmt.Errorf("%w: cannot build histogram (%d, %d, %d): %v",
				errs.ErrInvalidArgument, lowest, highest, sigFigs, r)
		}
	}()

	return hdrhistogram.New(lowest, highest, int(sigFigs)), nil
}

func (h *HDR) SignificantFigures() int32    { return h.sigFigs }
func (h *HDR) LowestTrackableValue() int64  { return h.lowest }
func (h *HDR) HighestTrackableValue() int64 { return h.highest }
func (h *HDR) TotalCount() int64            { return h.totalCount }

// Counts returns the backing counts array. After writing to it, call SetTotalCount so
// the cached engine is rebuilt.
func (h *HDR) Counts() []int64 {
	return h.counts
}

// SetTotalCount sets the total count and drops the cached engine.
func (h *HDR) SetTotalCount(total int64) {
	h.mu.Lock()
	h.totalCount = total
	h.engine = nil
	h.mu.Unlock()
}

// Engine returns an hdrhistogram-go histogram holding the adapter's counts, for
// percentile queries and reporting.
func (h *HDR) Engine() *hdrhistogram.Histogram {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.engine == nil {
		h.engine = hdrhistogram.Import(&hdrhistogram.Snapshot{
			LowestTrackableValue:  h.lowest,
			HighestTrackableValue: h.highest,
			SignificantFigures:    int64(h.sigFigs),
			Counts:                h.counts,
		})
	}

	return h.engine
}

// RecordValues records every value once.
func (h *HDR) RecordValues(values ...int64) error {
	return h.record(func(e *hdrhistogram.Histogram) error {
		for _, v := range values {
			if err := e.RecordValue(v); err != nil {
				return fmt.Errorf("%w: %w", errs.ErrInvalidArgument, err)
			}
		}

		return nil
	})
}

// RecordValueN records value n times.
func (h *HDR) RecordValueN(value, n int64) error {
	return h.record(func(e *hdrhistogram.Histogram) error {
		if err := e.RecordValues(value, n); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidArgument, err)
		}

		return nil
	})
}

func (h *HDR) record(fn func(*hdrhistogram.Histogram) error) error {
	engine := h.Engine()
	recErr := fn(engine)

	// values recorded before a failure are kept, as the engine does
	snap := engine.Export()
	copy(h.counts, snap.Counts)
	h.totalCount = engine.TotalCount()

	return recErr
}

// ValueAtQuantile returns the value at quantile q, expressed as a percentage in [0, 100].
func (h *HDR) ValueAtQuantile(q float64) int64 {
	return h.Engine().ValueAtQuantile(q)
}

// Max returns the highest recorded value, at bucket resolution.
func (h *HDR) Max() int64 {
	return h.Engine().Max()
}

// Mean returns the mean of the recorded values.
func (h *HDR) Mean() float64 {
	return h.Engine().Mean()
}

// CumulativeDistribution returns the engine's cumulative distribution brackets.
func (h *HDR) CumulativeDistribution() []hdrhistogram.Bracket {
	return h.Engine().CumulativeDistribution()
}

// PercentilesPrint writes the engine's classic percentile table to w.
func (h *HDR) PercentilesPrint(w io.Writer, ticksPerHalfDistance int32, valueScale float64) error {
	_, err := h.Engine().PercentilesPrint(w, ticksPerHalfDistance, valueScale)
	return err
}

// AsHDR returns h itself when it is an *HDR, or an HDR copy of its parameters and counts.
func AsHDR(h Histogram) (*HDR, error) {
	if hdr, ok := h.(*HDR); ok {
		return hdr, nil
	}

	hdr, err := NewHDR(h.LowestTrackableValue(), h.HighestTrackableValue(), h.SignificantFigures())
	if err != nil {
		return nil, err
	}

	src := h.Counts()
	if len(src) != len(hdr.counts) {
		return nil, fmt.Errorf("%w: histogram has %d counts, engine expects %d",
			errs.ErrInvalidArgument, len(src), len(hdr.counts))
	}
	copy(hdr.counts, src)
	hdr.totalCount = h.TotalCount()

	return hdr, nil
}
