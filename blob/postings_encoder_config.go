package blob

import (
	"fmt"

	"github.com/arloliu/dgap/endian"
	"github.com/arloliu/dgap/format"
	"github.com/arloliu/dgap/internal/options"
	"github.com/arloliu/dgap/section"
)

// PostingsEncoderConfig holds the header template and options of a PostingsEncoder.
type PostingsEncoderConfig struct {
	header *section.PostingsHeader
	engine endian.EndianEngine
}

// NewPostingsEncoderConfig creates a config for little-endian, delta encoded,
// uncompressed blobs that keep duplicate ids.
func NewPostingsEncoderConfig() *PostingsEncoderConfig {
	header := section.NewPostingsHeader()

	return &PostingsEncoderConfig{
		header: header,
		engine: header.GetEndianEngine(),
	}
}

func (c *PostingsEncoderConfig) setEncoding(enc format.EncodingType) error {
	switch enc {
	case format.TypeRaw, format.TypeDelta:
		c.header.Flag.SetEncoding(enc)
		return nil
	default:
		return fmt.Errorf("invalid postings encoding: %v", enc)
	}
}

func (c *PostingsEncoderConfig) setCompression(comp format.CompressionType) error {
	switch comp {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		c.header.Flag.SetCompression(comp)
		return nil
	default:
		return fmt.Errorf("invalid postings compression: %v", comp)
	}
}

// setEndianess sets the endianness option.
func (c *PostingsEncoderConfig) setEndianess(endiness endianness) {
	switch endiness {
	case bigEndianOpt:
		c.header.Flag.WithBigEndian()
	default:
		c.header.Flag.WithLittleEndian()
	}

	c.engine = c.header.GetEndianEngine()
}

// Encoding returns the configured payload encoding.
func (c *PostingsEncoderConfig) Encoding() format.EncodingType {
	return c.header.Flag.GetEncoding()
}

// Compression returns the configured payload compression.
func (c *PostingsEncoderConfig) Compression() format.CompressionType {
	return c.header.Flag.GetCompression()
}

// Unique reports whether duplicate ids are removed before encoding.
func (c *PostingsEncoderConfig) Unique() bool {
	return c.header.Flag.IsUnique()
}

// Engine returns the byte order used for header fields and raw ids.
func (c *PostingsEncoderConfig) Engine() endian.EndianEngine {
	return c.engine
}

// endianness represents the byte order configuration option.
type endianness uint8

const (
	littleEndianOpt endianness = iota
	bigEndianOpt
)

// PostingsEncoderOption is a functional option for configuring a PostingsEncoder.
type PostingsEncoderOption = options.Option[*PostingsEncoderConfig]

// WithEncoding sets the payload encoding.
// Valid values are format.TypeDelta (default) and format.TypeRaw.
func WithEncoding(enc format.EncodingType) PostingsEncoderOption {
	return options.New(func(c *PostingsEncoderConfig) error {
		return c.setEncoding(enc)
	})
}

// WithCompression sets the compression applied to the encoded payload.
// Default is format.CompressionNone.
//
// When the compressed payload is not smaller than the encoded one, the blob
// stores the encoded payload and records format.CompressionNone instead.
func WithCompression(comp format.CompressionType) PostingsEncoderOption {
	return options.New(func(c *PostingsEncoderConfig) error {
		return c.setCompression(comp)
	})
}

// WithLittleEndian sets the encoder to use little-endian byte order.
// It is the default option.
func WithLittleEndian() PostingsEncoderOption {
	return options.NoError(func(c *PostingsEncoderConfig) {
		c.setEndianess(littleEndianOpt)
	})
}

// WithBigEndian sets the encoder to use big-endian byte order.
// It only affects header fields and raw ids; varint payloads have no byte order.
func WithBigEndian() PostingsEncoderOption {
	return options.NoError(func(c *PostingsEncoderConfig) {
		c.setEndianess(bigEndianOpt)
	})
}

// WithUnique removes duplicate ids before encoding when set to true.
// Default is false: duplicates are kept and counted.
func WithUnique(unique bool) PostingsEncoderOption {
	return options.NoError(func(c *PostingsEncoderConfig) {
		c.header.Flag.SetUnique(unique)
	})
}
