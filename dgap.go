// Package dgap stores sorted uint32 postings lists as varint-encoded d-gaps.
//
// A postings list is the set of document ids an inverted index keeps per term.
// dgap sorts the ids, replaces each one with its distance to the previous id
// (a "d-gap") and writes every gap as a little-group-first base-128 varint, so
// dense lists cost about one byte per id instead of four:
//
//	data := dgap.EncodeList([]uint32{8, 2, 6, 4}) // 02 02 02 02
//	ids, err := dgap.DecodeList(data)              // [2 4 6 8]
//
// # Core Features
//
//   - Byte-exact varint codec for uint32 with truncation and overflow detection
//   - D-gap list codec that preserves duplicates and never returns partial results
//   - Lazy iterators with Seek for intersection and union of encoded lists
//   - Self-describing blobs with a checksummed header and optional compression (Zstd, S2, LZ4)
//   - An in-memory inverted index with prefix queries and a multi-column table on top
//
// # Package Structure
//
// This package provides convenient top-level wrappers for the most common use cases:
//
//   - encoding: varints, list codecs and postings iterators
//   - blob: the self-describing postings blob
//   - index: the inverted index and table
//   - compress, section, format: payload compression, blob header and type constants
package dgap

import (
	"github.com/arloliu/dgap/blob"
	"github.com/arloliu/dgap/encoding"
	"github.com/arloliu/dgap/format"
	"github.com/arloliu/dgap/index"
	"github.com/arloliu/dgap/internal/hash"
)

// EncodeList encodes ids as a sorted, d-gap varint buffer.
//
// ids is not modified. Duplicates are kept; an empty input encodes to an empty buffer.
func EncodeList(ids []uint32) []byte {
	return encoding.EncodeList(ids)
}

// DecodeList decodes a buffer produced by EncodeList into ascending ids.
//
// Returns errs.ErrVarintTruncated, errs.ErrVarintOverflow or
// errs.ErrPostingsOverflow for malformed input, with no partial result.
func DecodeList(data []byte) ([]uint32, error) {
	return encoding.DecodeList(data)
}

// Intersect decodes the given d-gap buffers and returns the ids present in all of them.
//
// The buffers are walked lazily; no list is expanded in full. No buffers yield
// an empty result.
//
// Example:
//
//	cat := dgap.EncodeList([]uint32{2, 4, 6, 8})
//	dog := dgap.EncodeList([]uint32{6, 8, 10, 12})
//	ids, err := dgap.Intersect(cat, dog) // [6 8]
func Intersect(lists ...[]byte) ([]uint32, error) {
	return encoding.ExpandPostings(encoding.Intersect(deltaPostings(lists)...))
}

// Union decodes the given d-gap buffers and returns the distinct ids present in any of them.
func Union(lists ...[]byte) ([]uint32, error) {
	return encoding.ExpandPostings(encoding.Merge(deltaPostings(lists)...))
}

func deltaPostings(lists [][]byte) []encoding.Postings {
	its := make([]encoding.Postings, len(lists))
	for i, data := range lists {
		its[i] = encoding.NewDeltaPostings(data)
	}

	return its
}

// NewPostingsEncoder creates a postings blob encoder with custom options.
//
// Available options:
//   - blob.WithEncoding(format.TypeDelta|TypeRaw)
//   - blob.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - blob.WithLittleEndian() / blob.WithBigEndian()
//   - blob.WithUnique(true|false)
func NewPostingsEncoder(opts ...blob.PostingsEncoderOption) (*blob.PostingsEncoder, error) {
	return blob.NewPostingsEncoder(opts...)
}

// NewDefaultPostingsEncoder creates an encoder with recommended settings for index use:
// d-gap encoding, no compression and duplicate removal.
func NewDefaultPostingsEncoder() (*blob.PostingsEncoder, error) {
	return blob.NewPostingsEncoder(
		blob.WithLittleEndian(),
		blob.WithEncoding(format.TypeDelta),
		blob.WithCompression(format.CompressionNone),
		blob.WithUnique(true),
	)
}

// DecodePostingsBlob parses and validates a postings blob.
func DecodePostingsBlob(data []byte) (blob.PostingsBlob, error) {
	return blob.DecodePostingsBlob(data)
}

// NewPostingsBlobSet groups blobs for union and intersection queries.
func NewPostingsBlobSet(blobs []blob.PostingsBlob) (blob.PostingsBlobSet, error) {
	return blob.NewPostingsBlobSet(blobs)
}

// NewIndex creates an empty in-memory inverted index.
func NewIndex(opts ...index.Option) (*index.Index, error) {
	return index.New(opts...)
}

// NewTable creates an empty multi-column table backed by an index.
func NewTable(opts ...index.Option) (*index.Table, error) {
	return index.NewTable(opts...)
}

// TermID returns the 64-bit dictionary key of term (xxHash64).
func TermID(term string) uint64 {
	return hash.ID(term)
}
