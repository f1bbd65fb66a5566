package blob

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/dgap/compress"
	"github.com/arloliu/dgap/encoding"
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/format"
	"github.com/arloliu/dgap/internal/hash"
	"github.com/arloliu/dgap/internal/options"
	"github.com/arloliu/dgap/internal/pool"
	"github.com/arloliu/dgap/section"
)

// PostingsEncoder turns id lists into self-describing postings blobs.
//
// The encoder holds only its configuration, so one encoder can be shared by
// many goroutines.
type PostingsEncoder struct {
	config *PostingsEncoderConfig
	codec  encoding.ListCodec
}

// NewPostingsEncoder creates a new postings blob encoder.
//
// Parameters:
//   - opts: Optional configuration (encoding, compression, endianness, unique)
//
// Returns:
//   - *PostingsEncoder: The encoder
//   - error: If an option is invalid
//
// Example:
//
//	encoder, err := blob.NewPostingsEncoder(
//	    blob.WithCompression(format.CompressionS2),
//	    blob.WithUnique(true),
//	)
//	if err != nil {
//	    return err
//	}
//	b, err := encoder.Encode(ids)
func NewPostingsEncoder(opts ...PostingsEncoderOption) (*PostingsEncoder, error) {
	config := NewPostingsEncoderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	codec, err := encoding.GetListCodec(config.Encoding(), config.Engine())
	if err != nil {
		return nil, err
	}

	return &PostingsEncoder{config: config, codec: codec}, nil
}

// Config returns the encoder configuration.
func (e *PostingsEncoder) Config() *PostingsEncoderConfig {
	return e.config
}

// Encode sorts ids, removes duplicates if configured, encodes and compresses them
// and returns the resulting blob.
//
// ids is not modified. An empty list produces a header-only blob.
func (e *PostingsEncoder) Encode(ids []uint32) (PostingsBlob, error) {
	if uint64(len(ids)) > math.MaxUint32 {
		return PostingsBlob{}, errs.ErrTooManyIDs
	}

	sorted, cleanup := pool.GetUint32Slice(len(ids))
	defer cleanup()
	sorted = append(sorted, ids...)
	slices.Sort(sorted)
	if e.config.Unique() {
		sorted = slices.Compact(sorted)
	}

	buf := pool.GetPostingsBuffer()
	defer pool.PutPostingsBuffer(buf)

	if e.codec.Type() == format.TypeDelta {
		buf.B = encoding.AppendSortedList(buf.B, sorted)
	} else {
		buf.B = e.codec.AppendEncode(buf.B, sorted)
	}
	payload := buf.Bytes()

	header := *e.config.header
	header.Count = uint32(len(sorted))        //nolint:gosec
	header.PayloadSize = uint32(len(payload)) //nolint:gosec
	if len(sorted) > 0 {
		header.MinID = sorted[0]
		header.MaxID = sorted[len(sorted)-1]
	}

	stored, stats, err := e.compress(&header, payload)
	if err != nil {
		return PostingsBlob{}, err
	}

	header.Checksum = 0
	data := header.AppendBytes(make([]byte, 0, section.HeaderSize+len(stored)))
	data = append(data, stored...)
	header.Checksum = hash.BlobChecksum(data[:section.ChecksumOffset], stored)
	e.config.Engine().PutUint32(data[section.ChecksumOffset:section.PayloadOffset], header.Checksum)

	return PostingsBlob{
		data:   data,
		header: header,
		engine: e.config.Engine(),
		stats:  stats,
	}, nil
}

// compress applies the configured compression and falls back to storing the
// payload as is when compression does not shrink it.
func (e *PostingsEncoder) compress(header *section.PostingsHeader, payload []byte) ([]byte, compress.CompressionStats, error) {
	comp := header.Flag.GetCompression()
	if comp != format.CompressionNone && len(payload) > 0 {
		stored, stats, err := compress.CompressWithStats(comp, payload)
		switch {
		case err == nil && len(stored) < len(payload):
			return stored, stats, nil
		case err != nil && !errors.Is(err, errs.ErrIncompressible):
			return nil, compress.CompressionStats{}, fmt.Errorf("compress postings payload: %w", err)
		}
		header.Flag.SetCompression(format.CompressionNone)
	}

	return payload, compress.CompressionStats{
		Algorithm:      format.CompressionNone,
		OriginalSize:   int64(len(payload)),
		CompressedSize: int64(len(payload)),
	}, nil
}
