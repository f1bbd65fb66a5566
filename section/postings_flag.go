package section

import (
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/format"
)

// PostingsFlag represents the packed flag fields at the start of a postings header.
type PostingsFlag struct {
	// Options is a packed field for various options.
	// Bit 0 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 1 is unique flag, 1 means the ids were deduplicated before encoding.
	// Bits 2-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are magic number to identify the blob format:
	//   - 0xDA50 (0b1101_1010_0101_0000): postings blob format v1
	Options uint16

	// Encoding indicates the encoding of the payload.
	// Valid values: TypeRaw, TypeDelta
	Encoding uint8

	// Compression indicates the compression applied to the encoded payload.
	// Valid values: CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4
	Compression uint8
}

// NewPostingsFlag creates a flag for a little-endian, delta encoded, uncompressed blob.
func NewPostingsFlag() PostingsFlag {
	return PostingsFlag{
		Options:     MagicPostingsV1Opt,
		Encoding:    uint8(format.TypeDelta),
		Compression: uint8(format.CompressionNone),
	}
}

// IsLittleEndian returns whether multi-byte header fields and raw ids are little-endian.
func (f PostingsFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether multi-byte header fields and raw ids are big-endian.
func (f PostingsFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *PostingsFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian sets big-endian byte order.
func (f *PostingsFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// IsUnique reports whether duplicate ids were removed before encoding.
func (f PostingsFlag) IsUnique() bool {
	return (f.Options & UniqueMask) != 0
}

// SetUnique records whether duplicate ids were removed before encoding.
func (f *PostingsFlag) SetUnique(unique bool) {
	if unique {
		f.Options |= UniqueMask
	} else {
		f.Options &^= UniqueMask
	}
}

// GetMagicNumber returns the magic number from the Options field.
func (f PostingsFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// IsValidMagicNumber checks if the magic number in the Options field is valid.
func (f PostingsFlag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicPostingsV1Opt
}

// SetEncoding sets the payload encoding type.
func (f *PostingsFlag) SetEncoding(encoding format.EncodingType) {
	f.Encoding = uint8(encoding)
}

// GetEncoding returns the payload encoding type.
func (f PostingsFlag) GetEncoding() format.EncodingType {
	return format.EncodingType(f.Encoding)
}

// SetCompression sets the payload compression type.
func (f *PostingsFlag) SetCompression(compression format.CompressionType) {
	f.Compression = uint8(compression)
}

// GetCompression returns the payload compression type.
func (f PostingsFlag) GetCompression() format.CompressionType {
	return format.CompressionType(f.Compression)
}

// Validate checks the magic number, reserved bits, encoding and compression.
//
// A wrong magic number returns ErrInvalidMagicNumber; every other problem returns
// ErrInvalidHeaderFlags.
func (f PostingsFlag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidMagicNumber
	}

	if (f.Options & ReservedBitsMask) != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validEncodings[f.Encoding]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validCompressions[f.Compression]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}
