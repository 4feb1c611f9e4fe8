package blob

import (
	"fmt"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/hdrlog/errs"
	"github.com/arloliu/hdrlog/internal/options"
	"github.com/arloliu/hdrlog/section"
)

const (
	// DefaultInitialBufferSize is the starting capacity of the output buffer.
	DefaultInitialBufferSize = 4096
	// DefaultMaxBufferSize bounds the output buffer growth.
	DefaultMaxBufferSize = 64 << 20
	// DefaultCompressionLevel is the deflate level used for envelopes.
	DefaultCompressionLevel = 4
	// DefaultChunkSize is the number of counts converted to wire order per compressor write.
	DefaultChunkSize = 512

	// maxEnvelopeSize is the largest buffer whose payload length fits the int32 length field.
	maxEnvelopeSize = math.MaxInt32
)

// EncoderConfig holds the encoder settings.
type EncoderConfig struct {
	initialBufferSize int
	maxBufferSize     int
	level             int
	chunkSize         int
}

// EncoderOption is a functional option for configuring an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

func defaultEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		initialBufferSize: DefaultInitialBufferSize,
		maxBufferSize:     DefaultMaxBufferSize,
		level:             DefaultCompressionLevel,
		chunkSize:         DefaultChunkSize,
	}
}

// Validate checks the combination of options.
func (c *EncoderConfig) Validate() error {
	if c.initialBufferSize < section.CompressionHeaderSize {
		return fmt.Errorf("%w: initial buffer size %d is smaller than the envelope header",
			errs.ErrInvalidArgument, c.initialBufferSize)
	}

	if c.maxBufferSize < c.initialBufferSize {
		return fmt.Errorf("%w: max buffer size %d < initial buffer size %d",
			errs.ErrInvalidArgument, c.maxBufferSize, c.initialBufferSize)
	}

	return nil
}

// WithInitialBufferSize sets the starting capacity of each output buffer.
// Must be at least section.CompressionHeaderSize.
func WithInitialBufferSize(size int) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.initialBufferSize = size
	})
}

// WithMaxBufferSize caps output buffer growth. Encoding a histogram that needs more
// fails with errs.ErrOutOfMemory.
func WithMaxBufferSize(size int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if size <= 0 || size > maxEnvelopeSize {
			return fmt.Errorf("%w: max buffer size %d outside (0, %d]",
				errs.ErrInvalidArgument, size, maxEnvelopeSize)
		}
		c.maxBufferSize = size

		return nil
	})
}

// WithCompressionLevel sets the deflate level, from zlib.HuffmanOnly to zlib.BestCompression.
func WithCompressionLevel(level int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if level < zlib.HuffmanOnly || level > zlib.BestCompression {
			return fmt.Errorf("%w: compression level %d", errs.ErrInvalidArgument, level)
		}
		c.level = level

		return nil
	})
}

// WithChunkSize sets how many counts are staged in wire order per compressor write.
func WithChunkSize(counts int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if counts <= 0 {
			return fmt.Errorf("%w: chunk size %d", errs.ErrInvalidArgument, counts)
		}
		c.chunkSize = counts

		return nil
	})
}
