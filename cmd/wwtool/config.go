package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/arloliu/wordwire/envelope"
	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/message"
	"github.com/arloliu/wordwire/schema"
)

// Config is the wwtool configuration file.
//
//	[reader]
//	traversal_limit_words = 8388608
//	nesting_limit = 64
//	max_segments = 512
//
//	[builder]
//	initial_segment_words = 1024
//	allocation = "grow"
//
//	[seal]
//	compression = "zstd"
//	packed = true
//
//	[[layouts]]
//	name = "addressbook.Person"
//	data_words = 1
//	pointer_count = 2
type Config struct {
	Reader  ReaderConfig   `toml:"reader"`
	Builder BuilderConfig  `toml:"builder"`
	Seal    SealConfig     `toml:"seal"`
	Layouts []LayoutConfig `toml:"layouts"`
}

// ReaderConfig holds reader limits. Zero values keep the library defaults.
type ReaderConfig struct {
	TraversalLimitWords uint64 `toml:"traversal_limit_words"`
	NestingLimit        int    `toml:"nesting_limit"`
	MaxSegments         int    `toml:"max_segments"`
	MaxMessageWords     uint64 `toml:"max_message_words"`
}

// BuilderConfig holds allocation settings for messages the tool builds.
type BuilderConfig struct {
	InitialSegmentWords int    `toml:"initial_segment_words"`
	Allocation          string `toml:"allocation"`
}

// SealConfig holds envelope defaults.
type SealConfig struct {
	Compression string `toml:"compression"`
	Packed      *bool  `toml:"packed"`
}

// LayoutConfig declares a named struct layout.
type LayoutConfig struct {
	Name         string `toml:"name"`
	DataWords    uint16 `toml:"data_words"`
	PointerCount uint16 `toml:"pointer_count"`
}

// LoadConfig reads a TOML configuration file. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	return cfg, nil
}

// ReaderOptions converts the reader section into message options.
func (c *Config) ReaderOptions() []message.ReaderOption {
	var opts []message.ReaderOption
	if c.Reader.TraversalLimitWords > 0 {
		opts = append(opts, message.WithTraversalLimit(c.Reader.TraversalLimitWords))
	}
	if c.Reader.NestingLimit > 0 {
		opts = append(opts, message.WithNestingLimit(c.Reader.NestingLimit))
	}
	if c.Reader.MaxSegments > 0 {
		opts = append(opts, message.WithMaxSegments(c.Reader.MaxSegments))
	}
	if c.Reader.MaxMessageWords > 0 {
		opts = append(opts, message.WithMaxMessageWords(c.Reader.MaxMessageWords))
	}

	return opts
}

// BuilderOptions converts the builder section into message options.
func (c *Config) BuilderOptions() ([]message.BuilderOption, error) {
	var opts []message.BuilderOption
	if c.Builder.InitialSegmentWords > 0 {
		opts = append(opts, message.WithInitialSegmentWords(c.Builder.InitialSegmentWords))
	}
	if c.Builder.Allocation != "" {
		s, ok := format.ParseAllocationStrategy(c.Builder.Allocation)
		if !ok {
			return nil, fmt.Errorf("unknown allocation strategy %q", c.Builder.Allocation)
		}
		opts = append(opts, message.WithAllocationStrategy(s))
	}

	return opts, nil
}

// SealOptions converts the seal section into envelope options.
func (c *Config) SealOptions() ([]envelope.Option, error) {
	var opts []envelope.Option
	if c.Seal.Compression != "" {
		ct, ok := format.ParseCompressionType(c.Seal.Compression)
		if !ok {
			return nil, fmt.Errorf("unknown compression %q", c.Seal.Compression)
		}
		opts = append(opts, envelope.WithCompression(ct))
	}
	if c.Seal.Packed != nil {
		opts = append(opts, envelope.WithPacking(*c.Seal.Packed))
	}

	return opts, nil
}

// Registry registers the declared layouts.
func (c *Config) Registry() (*schema.Registry, error) {
	reg := schema.NewRegistry()
	for _, l := range c.Layouts {
		layout := message.StructLayout{DataWords: l.DataWords, PointerCount: l.PointerCount}
		if _, err := reg.Register(l.Name, layout); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
