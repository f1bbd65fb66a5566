// Package compress provides the optional second stage of postings blob storage.
//
// A postings payload is first encoded (varint d-gaps or fixed-width ids, see the
// encoding package) and may then be compressed with one of:
//   - None: the payload is stored as is (default)
//   - Zstd: best ratio, for cold lists
//   - S2: fast, with a decoded length in the block
//   - LZ4: fastest decompression; the blob header supplies the decoded length
//
// Every codec implements Codec:
//
//	type Codec interface {
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte) ([]byte, error)
//	}
//
// GetCodec returns the shared built-in codec for a format.CompressionType, and
// CompressWithStats and Decompress wrap the common blob round trip:
//
//	stored, stats, err := compress.CompressWithStats(format.CompressionS2, payload)
//	...
//	payload, err = compress.Decompress(format.CompressionS2, stored, len(payload))
//
// Zstd is implemented with github.com/klauspost/compress by default. Building with
// the gozstd tag (and cgo enabled) switches to github.com/valyala/gozstd.
//
// Varint d-gaps are already dense, so short lists often grow under compression.
// The blob encoder keeps the uncompressed payload when compression does not help;
// see blob.WithCompression.
//
// All codecs are stateless values and safe for concurrent use.
package compress
