package compress

import (
	"fmt"
	"time"

	"github.com/arloliu/dgap/format"
)

// Compressor compresses an encoded postings payload.
//
// Payloads reaching a Compressor are already varint d-gaps or fixed-width ids, so
// general purpose compression mostly pays off on long, regular lists: runs of
// equal gaps, or raw ids with repeated high bytes.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// The input slice is not modified. The returned slice is owned by the caller,
	// except for NoOpCompressor which returns data itself.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// Example:
//
//	decompressor := compress.NewZstdCompressor()
//	payload, err := decompressor.Decompress(stored)
//	if err != nil {
//	    return fmt.Errorf("decompress postings: %w", err)
//	}
//
// Implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress returns the original payload, or an error if data is corrupted or
	// was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// SizedDecompressor is implemented by codecs that benefit from knowing the
// decompressed size up front. Blob headers record that size.
type SizedDecompressor interface {
	// DecompressSize decompresses data into a buffer of exactly size bytes.
	DecompressSize(data []byte, size int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression of a postings payload.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of the encoded payload before compression
	OriginalSize int64

	// CompressedSize is the size of the stored payload
	CompressedSize int64

	// CompressionTimeNs is the time taken to compress the payload
	CompressionTimeNs int64

	// DecompressionTimeNs is the time taken to decompress the payload (if measured)
	DecompressionTimeNs int64
}

// CompressionRatio returns compressed size / original size.
//
// Values below 1.0 mean the compressor saved space. Short varint payloads often
// come out above 1.0 because of frame overhead.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage. It is negative when
// compression grew the payload.
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

// CompressWithStats compresses data with the built-in codec for compressionType
// and reports sizes and elapsed time.
func CompressWithStats(compressionType format.CompressionType, data []byte) ([]byte, CompressionStats, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	start := time.Now()
	compressed, err := codec.Compress(data)
	elapsed := time.Since(start)
	if err != nil {
		return nil, CompressionStats{}, fmt.Errorf("%s compression failed: %w", compressionType, err)
	}

	return compressed, CompressionStats{
		Algorithm:         compressionType,
		OriginalSize:      int64(len(data)),
		CompressedSize:    int64(len(compressed)),
		CompressionTimeNs: elapsed.Nanoseconds(),
	}, nil
}

// Decompress decompresses data with the built-in codec for compressionType.
//
// size is the expected decompressed size; pass a negative value when unknown. A
// mismatch between size and the decompressed length is an error.
func Decompress(compressionType format.CompressionType, data []byte, size int) ([]byte, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	var out []byte
	if sized, ok := codec.(SizedDecompressor); ok && size >= 0 {
		out, err = sized.DecompressSize(data, size)
	} else {
		out, err = codec.Decompress(data)
	}
	if err != nil {
		return nil, err
	}

	if size >= 0 && len(out) != size {
		return nil, fmt.Errorf("%s decompressed %d bytes, expected %d", compressionType, len(out), size)
	}

	return out, nil
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Compressor instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
