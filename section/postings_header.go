package section

import (
	"github.com/arloliu/dgap/endian"
	"github.com/arloliu/dgap/errs"
)

// PostingsHeader is the fixed 24-byte header of a postings blob.
//
// Bytes 0-1 (the options) are always little-endian so a reader can find the
// endianness bit before decoding anything else; every later multi-byte field uses
// the byte order the options select.
type PostingsHeader struct {
	// Flag is a packed field for options, magic number (0xDA50), encoding and compression.
	Flag PostingsFlag // 4 bytes, offset 0-3
	// Count is the number of ids in the list, duplicates included.
	Count uint32 // 4 bytes, offset 4-7
	// PayloadSize is the size of the encoded payload before compression.
	PayloadSize uint32 // 4 bytes, offset 8-11
	// MinID is the smallest id, 0 for an empty list.
	MinID uint32 // 4 bytes, offset 12-15
	// MaxID is the largest id, 0 for an empty list.
	MaxID uint32 // 4 bytes, offset 16-19
	// Checksum is the low 32 bits of the xxHash64 of header bytes 0-19 followed by
	// the stored (possibly compressed) payload.
	Checksum uint32 // 4 bytes, offset 20-23
}

// NewPostingsHeader creates a header with default flags.
func NewPostingsHeader() *PostingsHeader {
	return &PostingsHeader{
		Flag: NewPostingsFlag(),
	}
}

// Parse parses the header from the first HeaderSize bytes of data.
//
// Trailing bytes after the header are ignored; they belong to the payload.
func (h *PostingsHeader) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Encoding = data[2]
	h.Flag.Compression = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.GetEndianEngine()

	h.Count = engine.Uint32(data[4:8])
	h.PayloadSize = engine.Uint32(data[8:12])
	h.MinID = engine.Uint32(data[12:16])
	h.MaxID = engine.Uint32(data[16:20])
	h.Checksum = engine.Uint32(data[20:24])

	if h.MinID > h.MaxID {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// Bytes serializes the header.
func (h *PostingsHeader) Bytes() []byte {
	return h.AppendBytes(make([]byte, 0, HeaderSize))
}

// AppendBytes appends the serialized header to dst.
func (h *PostingsHeader) AppendBytes(dst []byte) []byte {
	engine := h.GetEndianEngine()

	dst = append(dst, byte(h.Flag.Options), byte(h.Flag.Options>>8), h.Flag.Encoding, h.Flag.Compression)
	dst = engine.AppendUint32(dst, h.Count)
	dst = engine.AppendUint32(dst, h.PayloadSize)
	dst = engine.AppendUint32(dst, h.MinID)
	dst = engine.AppendUint32(dst, h.MaxID)
	dst = engine.AppendUint32(dst, h.Checksum)

	return dst
}

// GetEndianEngine returns the appropriate endian engine based on the header flags.
func (h *PostingsHeader) GetEndianEngine() endian.EndianEngine {
	if h.Flag.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}
