package encoding

import (
	"slices"

	"github.com/arloliu/dgap/endian"
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/format"
)

const rawIDSize = 4

// RawListCodec stores a sorted postings list as fixed-width 4-byte ids.
//
// It is the uncompressed baseline the delta encoding is measured against, and is
// useful when ids are sparse enough that most gaps need four or five varint bytes.
type RawListCodec struct {
	engine endian.EndianEngine
}

var _ ListCodec = RawListCodec{}

// NewRawListCodec creates a fixed-width codec using the given byte order.
//
// The codec is returned by value; it holds only the engine and is immutable.
// A nil engine selects little-endian.
//
// Parameters:
//   - engine: Endian engine for byte order (typically little-endian)
//
// Returns:
//   - RawListCodec: A new codec instance (stateless, can be reused)
func NewRawListCodec(engine endian.EndianEngine) RawListCodec {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	return RawListCodec{engine: engine}
}

// Type returns format.TypeRaw.
func (c RawListCodec) Type() format.EncodingType {
	return format.TypeRaw
}

// Encode returns the ids sorted ascending, 4 bytes each.
func (c RawListCodec) Encode(ids []uint32) []byte {
	return c.AppendEncode(make([]byte, 0, len(ids)*rawIDSize), ids)
}

// AppendEncode appends the sorted ids to dst.
func (c RawListCodec) AppendEncode(dst []byte, ids []uint32) []byte {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	dst = slices.Grow(dst, len(sorted)*rawIDSize)
	for _, id := range sorted {
		dst = c.engine.AppendUint32(dst, id)
	}

	return dst
}

// Decode returns the ids stored in data.
//
// Returns ErrInvalidRawLength when len(data) is not a multiple of 4.
func (c RawListCodec) Decode(data []byte) ([]uint32, error) {
	return c.AppendDecode(make([]uint32, 0, len(data)/rawIDSize), data)
}

// AppendDecode appends the ids stored in data to dst.
func (c RawListCodec) AppendDecode(dst []uint32, data []byte) ([]uint32, error) {
	if len(data)%rawIDSize != 0 {
		return dst, errs.ErrInvalidRawLength
	}

	for i := 0; i < len(data); i += rawIDSize {
		dst = append(dst, c.engine.Uint32(data[i:i+rawIDSize]))
	}

	return dst, nil
}

// Postings returns an iterator over the fixed-width ids in data.
func (c RawListCodec) Postings(data []byte) Postings {
	ids, err := c.Decode(data)
	if err != nil {
		return ErrPostings(err)
	}

	return NewListPostings(ids)
}

// At returns the id at index without decoding the rest of the list.
//
// Fixed-width ids are the one encoding that supports random access.
func (c RawListCodec) At(data []byte, index int) (uint32, bool) {
	start := index * rawIDSize
	if index < 0 || start+rawIDSize > len(data) {
		return 0, false
	}

	return c.engine.Uint32(data[start : start+rawIDSize]), true
}
