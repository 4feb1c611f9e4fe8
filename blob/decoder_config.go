package blob

import (
	"fmt"

	"github.com/arloliu/hdrlog/errs"
	"github.com/arloliu/hdrlog/histogram"
	"github.com/arloliu/hdrlog/internal/options"
)

const (
	// DefaultMaxCountsLen bounds the counts array a decoded header may ask for.
	DefaultMaxCountsLen = 1 << 24
	// DefaultMaxTrailingBytes bounds the inflated bytes drained after the last count.
	DefaultMaxTrailingBytes = 1 << 20
)

// DecoderConfig holds the decoder settings.
type DecoderConfig struct {
	factory          histogram.Factory
	maxCountsLen     int
	maxTrailingBytes int
	chunkSize        int
}

// DecoderOption is a functional option for configuring a Decoder.
type DecoderOption = options.Option[*DecoderConfig]

func defaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		factory:          histogram.DefaultFactory,
		maxCountsLen:     DefaultMaxCountsLen,
		maxTrailingBytes: DefaultMaxTrailingBytes,
		chunkSize:        DefaultChunkSize,
	}
}

// WithFactory sets the constructor used to materialize decoded histograms.
func WithFactory(factory histogram.Factory) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if factory == nil {
			return fmt.Errorf("%w: nil histogram factory", errs.ErrInvalidArgument)
		}
		c.factory = factory

		return nil
	})
}

// WithMaxCountsLen rejects headers describing histograms with more than n counts. The
// limit is checked before the factory runs, so an oversized header allocates nothing.
func WithMaxCountsLen(n int) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: max counts length %d", errs.ErrInvalidArgument, n)
		}
		c.maxCountsLen = n

		return nil
	})
}

// WithMaxTrailingBytes sets how many inflated bytes past the last count are tolerated.
func WithMaxTrailingBytes(n int) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: max trailing bytes %d", errs.ErrInvalidArgument, n)
		}
		c.maxTrailingBytes = n

		return nil
	})
}

// WithDecodeChunkSize sets how many counts are inflated per step.
func WithDecodeChunkSize(counts int) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if counts <= 0 {
			return fmt.Errorf("%w: chunk size %d", errs.ErrInvalidArgument, counts)
		}
		c.chunkSize = counts

		return nil
	})
}
