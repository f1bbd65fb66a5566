package section

import (
	"github.com/arloliu/dgap/format"
)

const (
	// Bit masks
	EndiannessMask   = 0x0001 // Mask for endianness bit (bit 0)
	UniqueMask       = 0x0002 // Mask for unique ids bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// Magic numbers (bits 4-15)
	MagicPostingsV1Opt = 0xDA50 // MagicPostingsV1Opt is the version 1 magic number for postings blobs.
)

// offsets and sizes in the blob
const (
	HeaderSize     = 24         // fixed header size in bytes
	ChecksumOffset = 20         // byte offset of the checksum; the bytes before it are checksummed
	PayloadOffset  = HeaderSize // byte offset where the stored payload starts
)

var validEncodings = map[uint8]struct{}{
	uint8(format.TypeRaw):   {},
	uint8(format.TypeDelta): {},
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}
