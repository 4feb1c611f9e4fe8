package histogram

import (
	"fmt"
	"math"
	"math/bits"
	"slices"

	"github.com/arloliu/hdrlog/errs"
)

const (
	MinSignificantFigures = 1
	MaxSignificantFigures = 5
)

// Histogram is the read-only snapshot the encoder serializes.
//
// Counts must have the length implied by the three construction parameters and must
// not be modified while an encode is in progress.
type Histogram interface {
	SignificantFigures() int32
	LowestTrackableValue() int64
	HighestTrackableValue() int64
	TotalCount() int64
	Counts() []int64
}

// Mutable is a histogram the decoder can fill in place.
//
// The slice returned by Counts is the backing storage: writes to it become the
// histogram's counts. SetTotalCount is called once the counts are written.
type Mutable interface {
	Histogram
	SetTotalCount(total int64)
}

// Factory constructs an empty histogram for the given parameters.
//
// It returns an error wrapping errs.ErrInvalidArgument when the parameters cannot
// describe a histogram, and errs.ErrOutOfMemory when its counts cannot be allocated.
type Factory func(lowest, highest int64, sigFigs int32) (Mutable, error)

// DefaultFactory builds hdrhistogram-go backed histograms.
var DefaultFactory Factory = func(lowest, highest int64, sigFigs int32) (Mutable, error) {
	return NewHDR(lowest, highest, sigFigs)
}

// ValidateParams checks the construction parameters of a histogram.
//
// lowest must be at least 1, highest at least twice lowest, and sigFigs within
// [MinSignificantFigures, MaxSignificantFigures].
func ValidateParams(lowest, highest int64, sigFigs int32) error {
	if lowest < 1 {
		return fmt.Errorf("%w: lowest trackable value %d < 1", errs.ErrInvalidArgument, lowest)
	}

	if highest < 2*lowest || highest < lowest {
		return fmt.Errorf("%w: highest trackable value %d < 2 * lowest %d",
			errs.ErrInvalidArgument, highest, lowest)
	}

	if sigFigs < MinSignificantFigures || sigFigs > MaxSignificantFigures {
		return fmt.Errorf("%w: significant figures %d outside [%d, %d]",
			errs.ErrInvalidArgument, sigFigs, MinSignificantFigures, MaxSignificantFigures)
	}

	return nil
}

// CountsLen returns the number of counts a histogram with these parameters holds,
// following the HdrHistogram bucket layout, without allocating it.
func CountsLen(lowest, highest int64, sigFigs int32) (int, error) {
	if err := ValidateParams(lowest, highest, sigFigs); err != nil {
		return 0, err
	}

	largestSingleUnit := uint64(2)
	for range sigFigs {
		largestSingleUnit *= 10
	}

	subBucketCountMagnitude := bits.Len64(largestSingleUnit - 1) // ceil(log2)
	subBucketHalfCountMagnitude := max(subBucketCountMagnitude, 1) - 1
	subBucketCount := int64(1) << (subBucketHalfCountMagnitude + 1)
	unitMagnitude := bits.Len64(uint64(lowest)) - 1 // floor(log2)

	smallestUntrackable := subBucketCount << unitMagnitude
	bucketsNeeded := int64(1)
	for smallestUntrackable < highest {
		if smallestUntrackable > math.MaxInt64/2 {
			bucketsNeeded++
			break
		}
		smallestUntrackable <<= 1
		bucketsNeeded++
	}

	return int((bucketsNeeded + 1) * (subBucketCount / 2)), nil
}

// Equal reports whether a and b have the same parameters, total count and counts.
func Equal(a, b Histogram) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.SignificantFigures() == b.SignificantFigures() &&
		a.LowestTrackableValue() == b.LowestTrackableValue() &&
		a.HighestTrackableValue() == b.HighestTrackableValue() &&
		a.TotalCount() == b.TotalCount() &&
		slices.Equal(a.Counts(), b.Counts())
}
