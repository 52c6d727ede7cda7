package message

import (
	"fmt"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/internal/options"
	"github.com/arloliu/wordwire/segment"
)

const (
	// DefaultTraversalLimitWords is the default traversal budget: 8 Mi words (64 MiB).
	DefaultTraversalLimitWords = 8 * 1024 * 1024
	// DefaultNestingLimit is the default maximum pointer depth.
	DefaultNestingLimit = 64
	// DefaultMaxSegments is the default maximum number of segments in a framed message.
	DefaultMaxSegments = 512
)

// ReaderOptions holds the resource limits of a Reader.
type ReaderOptions struct {
	// TraversalLimitWords is the number of words a single traversal may dereference.
	TraversalLimitWords uint64
	// NestingLimit is the maximum pointer depth of a traversal.
	NestingLimit int
	// MaxSegments bounds the segment count accepted by framing decoders.
	MaxSegments int
	// MaxMessageWords bounds the total message size accepted by framing decoders.
	// Zero means TraversalLimitWords.
	MaxMessageWords uint64
}

// ReaderOption configures ReaderOptions.
type ReaderOption = options.Option[*ReaderOptions]

// DefaultReaderOptions returns the default limits.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		TraversalLimitWords: DefaultTraversalLimitWords,
		NestingLimit:        DefaultNestingLimit,
		MaxSegments:         DefaultMaxSegments,
	}
}

// NewReaderOptions returns the default limits with opts applied.
func NewReaderOptions(opts ...ReaderOption) (ReaderOptions, error) {
	o := DefaultReaderOptions()
	if err := options.ApplyAndValidate(&o, (*ReaderOptions).validate, opts...); err != nil {
		return ReaderOptions{}, err
	}

	return o, nil
}

// MessageCeilingWords returns the largest message, in words, a framing decoder accepts.
func (o ReaderOptions) MessageCeilingWords() uint64 {
	if o.MaxMessageWords > 0 {
		return o.MaxMessageWords
	}

	return o.TraversalLimitWords
}

func (o *ReaderOptions) validate() error {
	if o.TraversalLimitWords == 0 {
		return fmt.Errorf("%w: traversal limit must be positive", errs.ErrInvalidOption)
	}
	if o.NestingLimit <= 0 {
		return fmt.Errorf("%w: nesting limit must be positive", errs.ErrInvalidOption)
	}
	if o.MaxSegments <= 0 {
		return fmt.Errorf("%w: segment limit must be positive", errs.ErrInvalidOption)
	}

	return nil
}

// WithTraversalLimit sets the traversal budget in words.
func WithTraversalLimit(words uint64) ReaderOption {
	return options.NoError(func(o *ReaderOptions) {
		o.TraversalLimitWords = words
	})
}

// WithNestingLimit sets the maximum pointer depth.
func WithNestingLimit(depth int) ReaderOption {
	return options.NoError(func(o *ReaderOptions) {
		o.NestingLimit = depth
	})
}

// WithMaxSegments sets the maximum segment count accepted by framing decoders.
func WithMaxSegments(n int) ReaderOption {
	return options.NoError(func(o *ReaderOptions) {
		o.MaxSegments = n
	})
}

// WithMaxMessageWords sets the message size ceiling in words.
func WithMaxMessageWords(words uint64) ReaderOption {
	return options.NoError(func(o *ReaderOptions) {
		o.MaxMessageWords = words
	})
}

// WithReaderOptions replaces every limit with the values in src.
func WithReaderOptions(src ReaderOptions) ReaderOption {
	return options.NoError(func(o *ReaderOptions) {
		*o = src
	})
}

// BuilderConfig holds the allocation settings of a Builder.
type BuilderConfig struct {
	// InitialSegmentWords is the capacity of the first segment.
	InitialSegmentWords int
	// Strategy decides the capacity of later segments.
	Strategy format.AllocationStrategy
}

// BuilderOption configures a Builder.
type BuilderOption = options.Option[*BuilderConfig]

// DefaultBuilderConfig returns the default allocation settings.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		InitialSegmentWords: segment.DefaultInitialWords,
		Strategy:            format.GrowHeuristically,
	}
}

// WithInitialSegmentWords sets the capacity of the first segment in words.
func WithInitialSegmentWords(words int) BuilderOption {
	return options.New(func(c *BuilderConfig) error {
		if words <= 0 || words > segment.MaxWords {
			return fmt.Errorf("%w: initial segment size %d", errs.ErrInvalidOption, words)
		}
		c.InitialSegmentWords = words

		return nil
	})
}

// WithAllocationStrategy sets how later segments are sized.
func WithAllocationStrategy(s format.AllocationStrategy) BuilderOption {
	return options.New(func(c *BuilderConfig) error {
		switch s {
		case format.GrowHeuristically, format.FixedSize:
			c.Strategy = s
			return nil
		default:
			return fmt.Errorf("%w: allocation strategy %d", errs.ErrInvalidOption, s)
		}
	})
}
