package encoding

import (
	"slices"

	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/format"
	"github.com/arloliu/dgap/internal/pool"
)

// DeltaListCodec encodes postings lists as varint d-gaps.
//
// The ids are sorted ascending, each id after the first is replaced by its
// distance from the previous one, and every gap is written with AppendUvarint32.
// Small gaps dominate dense postings lists, so most ids take a single byte
// instead of four.
//
// Wire format: zero or more varints, concatenated, with no header, length prefix
// or separator. An empty list encodes to zero bytes.
//
// The codec does not deduplicate: an id that appears twice produces a zero gap
// and survives the round trip twice. Use Unique before encoding for set semantics.
//
// DeltaListCodec is stateless and safe for concurrent use.
type DeltaListCodec struct{}

var _ ListCodec = DeltaListCodec{}

// NewDeltaListCodec creates a new d-gap varint codec.
func NewDeltaListCodec() DeltaListCodec {
	return DeltaListCodec{}
}

// Type returns format.TypeDelta.
func (c DeltaListCodec) Type() format.EncodingType {
	return format.TypeDelta
}

// Encode returns the encoding of ids. ids is not modified.
func (c DeltaListCodec) Encode(ids []uint32) []byte {
	return EncodeList(ids)
}

// AppendEncode appends the encoding of ids to dst.
func (c DeltaListCodec) AppendEncode(dst []byte, ids []uint32) []byte {
	return AppendList(dst, ids)
}

// Decode reconstructs the ascending id list from data.
func (c DeltaListCodec) Decode(data []byte) ([]uint32, error) {
	return DecodeList(data)
}

// AppendDecode appends the ids decoded from data to dst.
func (c DeltaListCodec) AppendDecode(dst []uint32, data []byte) ([]uint32, error) {
	return AppendDecodeList(dst, data)
}

// Postings returns a lazy iterator over data.
func (c DeltaListCodec) Postings(data []byte) Postings {
	return NewDeltaPostings(data)
}

// EncodeList encodes an unordered collection of ids as sorted varint d-gaps.
//
// Example:
//
//	data := encoding.EncodeList([]uint32{8, 2, 6, 4})
//	// gaps 2,2,2,2 -> data == []byte{0x02, 0x02, 0x02, 0x02}
func EncodeList(ids []uint32) []byte {
	if len(ids) == 0 {
		return []byte{}
	}

	buf := pool.GetPostingsBuffer()
	defer pool.PutPostingsBuffer(buf)

	buf.B = AppendList(buf.B, ids)

	return buf.Clone()
}

// AppendList appends the d-gap encoding of ids to dst and returns the extended slice.
//
// ids is copied before sorting, so the caller's slice keeps its order.
func AppendList(dst []byte, ids []uint32) []byte {
	if len(ids) == 0 {
		return dst
	}

	sorted, cleanup := pool.GetUint32Slice(len(ids))
	defer cleanup()
	sorted = append(sorted, ids...)
	slices.Sort(sorted)

	return appendSortedGaps(dst, sorted)
}

// AppendSortedList is AppendList for input that is already ascending.
//
// It skips the copy and sort. Passing unsorted input produces a buffer that
// decodes to wrapped-around values, so callers must guarantee the order.
func AppendSortedList(dst []byte, sorted []uint32) []byte {
	return appendSortedGaps(dst, sorted)
}

func appendSortedGaps(dst []byte, sorted []uint32) []byte {
	var prev uint32
	for _, id := range sorted {
		dst = AppendUvarint32(dst, id-prev)
		prev = id
	}

	return dst
}

// DecodeList decodes a d-gap buffer produced by EncodeList.
//
// The returned ids are ascending. An empty buffer decodes to an empty list.
// ErrVarintTruncated and ErrVarintOverflow are returned unchanged, as is
// ErrPostingsOverflow when the gap sum leaves the uint32 range; no partial
// result is returned with an error.
func DecodeList(data []byte) ([]uint32, error) {
	return AppendDecodeList(make([]uint32, 0, CountUvarints(data)), data)
}

// AppendDecodeList appends the ids decoded from data to dst.
//
// On error dst is returned with its original length.
func AppendDecodeList(dst []uint32, data []byte) ([]uint32, error) {
	start := len(dst)
	var last uint32
	for len(data) > 0 {
		gap, n, err := Uvarint32(data)
		if err != nil {
			return dst[:start], err
		}
		next := last + gap
		if next < last {
			return dst[:start], errs.ErrPostingsOverflow
		}
		last = next
		dst = append(dst, last)
		data = data[n:]
	}

	return dst, nil
}

// Gaps returns the d-gap sequence of an ascending list.
//
// The first element is sorted[0]; element i is sorted[i]-sorted[i-1].
func Gaps(sorted []uint32) []uint32 {
	gaps := make([]uint32, len(sorted))
	var prev uint32
	for i, id := range sorted {
		gaps[i] = id - prev
		prev = id
	}

	return gaps
}

// DecodeGaps returns the raw gap sequence stored in data without summing it.
func DecodeGaps(data []byte) ([]uint32, error) {
	gaps := make([]uint32, 0, CountUvarints(data))
	for len(data) > 0 {
		gap, n, err := Uvarint32(data)
		if err != nil {
			return nil, err
		}
		gaps = append(gaps, gap)
		data = data[n:]
	}

	return gaps, nil
}

// EncodedListSize returns the exact size EncodeList would produce for ids.
func EncodedListSize(ids []uint32) int {
	if len(ids) == 0 {
		return 0
	}

	sorted, cleanup := pool.GetUint32Slice(len(ids))
	defer cleanup()
	sorted = append(sorted, ids...)
	slices.Sort(sorted)

	size := 0
	var prev uint32
	for _, id := range sorted {
		size += UvarintLen32(id - prev)
		prev = id
	}

	return size
}

// Unique returns a sorted copy of ids with duplicates removed.
func Unique(ids []uint32) []uint32 {
	out := slices.Clone(ids)
	slices.Sort(out)

	return slices.Compact(out)
}
