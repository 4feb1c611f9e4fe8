package logio

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/hdrlog/blob"
	"github.com/arloliu/hdrlog/errs"
	"github.com/arloliu/hdrlog/format"
	"github.com/arloliu/hdrlog/internal/hash"
	"github.com/arloliu/hdrlog/internal/options"
)

// DefaultMaxLineLength bounds the length of a single log line.
const DefaultMaxLineLength = 64 << 20

// ReaderConfig holds the Reader settings.
type ReaderConfig struct {
	policy        format.FailurePolicy
	strictBase64  bool
	tags          hash.TagSet
	logger        *zap.Logger
	decoder       *blob.Decoder
	maxLineLength int
}

// ReaderOption is a functional option for configuring a Reader.
type ReaderOption = options.Option[*ReaderConfig]

func defaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		policy:        format.SkipInvalid,
		logger:        zap.NewNop(),
		maxLineLength: DefaultMaxLineLength,
	}
}

// WithFailurePolicy sets what happens to well formed lines whose payload cannot be
// decoded. The default is format.SkipInvalid.
func WithFailurePolicy(policy format.FailurePolicy) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		switch policy {
		case format.SkipInvalid, format.AbortOnInvalid:
			c.policy = policy
			return nil
		default:
			return fmt.Errorf("%w: failure policy %s", errs.ErrInvalidArgument, policy)
		}
	})
}

// WithStrictBase64 only accepts '=' as trailing padding. By default '=' decodes as
// zero wherever it appears.
func WithStrictBase64(strict bool) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.strictBase64 = strict
	})
}

// WithTags only yields records carrying one of tags. The empty tag selects untagged
// records. Records that do not match are skipped without decoding their payload.
func WithTags(tags ...string) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		if len(tags) == 0 {
			c.tags = nil
			return
		}
		c.tags = hash.NewTagSet(tags...)
	})
}

// WithLogger sets the logger that reports skipped lines.
func WithLogger(logger *zap.Logger) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithDecoder sets the envelope decoder, for instance one with a custom histogram factory.
func WithDecoder(decoder *blob.Decoder) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if decoder == nil {
			return fmt.Errorf("%w: nil decoder", errs.ErrInvalidArgument)
		}
		c.decoder = decoder

		return nil
	})
}

// WithMaxLineLength rejects lines longer than n bytes with errs.ErrOutOfMemory.
func WithMaxLineLength(n int) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: max line length %d", errs.ErrInvalidArgument, n)
		}
		c.maxLineLength = n

		return nil
	})
}
