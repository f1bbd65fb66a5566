package encoding

import (
	"fmt"
	"iter"

	"github.com/arloliu/dgap/endian"
	"github.com/arloliu/dgap/format"
)

// ListCodec converts a postings list to bytes and back.
//
// Implementations are stateless values and safe for concurrent use.
type ListCodec interface {
	// Type returns the encoding type recorded in blob headers.
	Type() format.EncodingType

	// Encode returns the encoding of ids.
	//
	// ids may be in any order and is not modified. The decoded list is ascending.
	Encode(ids []uint32) []byte

	// AppendEncode appends the encoding of ids to dst and returns the extended slice.
	AppendEncode(dst []byte, ids []uint32) []byte

	// Decode reconstructs the ascending id list from data.
	//
	// No partial result is returned together with an error.
	Decode(data []byte) ([]uint32, error)

	// AppendDecode appends the ids decoded from data to dst.
	AppendDecode(dst []uint32, data []byte) ([]uint32, error)

	// Postings returns a lazy iterator over data without materializing the list.
	Postings(data []byte) Postings
}

// GetListCodec returns the codec for the given encoding type.
//
// engine is only used by the fixed-width raw encoding; the delta encoding is byte
// order independent.
//
// Parameters:
//   - encType: Encoding type, usually read from a blob header
//   - engine: Byte order of fixed-width payloads
//
// Returns:
//   - ListCodec: The codec for encType
//   - error: If encType is unknown
func GetListCodec(encType format.EncodingType, engine endian.EndianEngine) (ListCodec, error) {
	switch encType {
	case format.TypeDelta:
		return NewDeltaListCodec(), nil
	case format.TypeRaw:
		return NewRawListCodec(engine), nil
	default:
		return nil, fmt.Errorf("unsupported postings encoding: %s (0x%x)", encType, uint8(encType))
	}
}

// All returns an iterator over the ids stored in a d-gap buffer.
//
// Iteration stops silently at the first malformed varint. Use DecodeList, or the
// Err method of NewDeltaPostings, when the caller needs the error.
func All(data []byte) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		var last uint32
		for len(data) > 0 {
			gap, n, err := Uvarint32(data)
			if err != nil || last+gap < last {
				return
			}
			last += gap
			if !yield(last) {
				return
			}
			data = data[n:]
		}
	}
}
