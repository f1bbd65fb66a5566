package blob

import (
	"fmt"

	"github.com/arloliu/dgap/compress"
	"github.com/arloliu/dgap/encoding"
	"github.com/arloliu/dgap/endian"
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/format"
	"github.com/arloliu/dgap/internal/hash"
	"github.com/arloliu/dgap/section"
)

// PostingsBlob is an immutable, self-describing postings list: a section.PostingsHeader
// followed by the stored payload.
//
// PostingsBlob values are cheap to copy and safe for concurrent reads.
type PostingsBlob struct {
	data   []byte
	header section.PostingsHeader
	engine endian.EndianEngine
	stats  compress.CompressionStats
}

// DecodePostingsBlob parses and validates a blob produced by PostingsEncoder.
//
// The header flags and the checksum over the header fields and the payload are verified; the payload itself is
// decoded lazily by IDs or Postings. data is referenced, not copied.
//
// Returns:
//   - errs.ErrInvalidHeaderSize: data is shorter than the header, or an uncompressed
//     payload does not match the recorded size
//   - errs.ErrInvalidMagicNumber, errs.ErrInvalidHeaderFlags: the header is not a postings header
//   - errs.ErrChecksumMismatch: the header fields or the payload were modified
func DecodePostingsBlob(data []byte) (PostingsBlob, error) {
	var header section.PostingsHeader
	if err := header.Parse(data); err != nil {
		return PostingsBlob{}, err
	}

	stored := data[section.PayloadOffset:]
	if hash.BlobChecksum(data[:section.ChecksumOffset], stored) != header.Checksum {
		return PostingsBlob{}, errs.ErrChecksumMismatch
	}

	comp := header.Flag.GetCompression()
	if comp == format.CompressionNone && uint32(len(stored)) != header.PayloadSize { //nolint:gosec
		return PostingsBlob{}, errs.ErrInvalidHeaderSize
	}

	return PostingsBlob{
		data:   data,
		header: header,
		engine: header.GetEndianEngine(),
		stats: compress.CompressionStats{
			Algorithm:      comp,
			OriginalSize:   int64(header.PayloadSize),
			CompressedSize: int64(len(stored)),
		},
	}, nil
}

// Bytes returns the serialized blob. The caller must not modify it.
func (b PostingsBlob) Bytes() []byte {
	return b.data
}

// Size returns the serialized size in bytes.
func (b PostingsBlob) Size() int {
	return len(b.data)
}

// Len returns the number of ids, duplicates included.
func (b PostingsBlob) Len() int {
	return int(b.header.Count)
}

// IsEmpty reports whether the blob holds no ids.
func (b PostingsBlob) IsEmpty() bool {
	return b.header.Count == 0
}

// Header returns a copy of the blob header.
func (b PostingsBlob) Header() section.PostingsHeader {
	return b.header
}

// MinID returns the smallest id, or 0 for an empty blob.
func (b PostingsBlob) MinID() uint32 {
	return b.header.MinID
}

// MaxID returns the largest id, or 0 for an empty blob.
func (b PostingsBlob) MaxID() uint32 {
	return b.header.MaxID
}

// Payload returns the stored payload, compressed if the header says so.
func (b PostingsBlob) Payload() []byte {
	if len(b.data) < section.PayloadOffset {
		return nil
	}

	return b.data[section.PayloadOffset:]
}

// Stats returns the payload sizes. CompressionTimeNs is only set on blobs
// returned by PostingsEncoder.Encode.
func (b PostingsBlob) Stats() compress.CompressionStats {
	return b.stats
}

// IDs decodes the ascending id list.
//
// The decoded length must match the header count; otherwise errs.ErrCountMismatch
// is returned. The first and last ids must match MinID and MaxID; otherwise
// errs.ErrIDRangeMismatch is returned.
func (b PostingsBlob) IDs() ([]uint32, error) {
	codec, payload, err := b.open()
	if err != nil {
		return nil, err
	}

	ids, err := codec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode postings payload: %w", err)
	}
	if uint32(len(ids)) != b.header.Count { //nolint:gosec
		return nil, errs.ErrCountMismatch
	}
	if len(ids) > 0 && (ids[0] != b.header.MinID || ids[len(ids)-1] != b.header.MaxID) {
		return nil, errs.ErrIDRangeMismatch
	}

	return ids, nil
}

// Postings returns a lazy iterator over the ids.
//
// Decompression happens up front; decoding errors surface through the iterator's Err.
func (b PostingsBlob) Postings() encoding.Postings {
	if b.header.Count == 0 {
		return encoding.EmptyPostings()
	}

	codec, payload, err := b.open()
	if err != nil {
		return encoding.ErrPostings(err)
	}

	return codec.Postings(payload)
}

// Contains reports whether id is in the blob.
func (b PostingsBlob) Contains(id uint32) (bool, error) {
	if b.header.Count == 0 || id < b.header.MinID || id > b.header.MaxID {
		return false, nil
	}

	p := b.Postings()
	if p.Seek(id) {
		return p.At() == id, nil
	}

	return false, p.Err()
}

func (b PostingsBlob) open() (encoding.ListCodec, []byte, error) {
	codec, err := encoding.GetListCodec(b.header.Flag.GetEncoding(), b.engine)
	if err != nil {
		return nil, nil, err
	}

	payload, err := compress.Decompress(b.header.Flag.GetCompression(), b.Payload(), int(b.header.PayloadSize))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress postings payload: %w", err)
	}

	return codec, payload, nil
}
