package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/dgap/errs"
)

// lz4CompressorPool pools lz4.Compressor hash tables between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

const (
	// maxLZ4DecodeSize bounds the buffer of Decompress and DecompressSize.
	maxLZ4DecodeSize = 128 * 1024 * 1024
	// lz4MaxRatio is the largest expansion of a block: each 255 length byte adds
	// at most 255 output bytes.
	lz4MaxRatio = 255
)

// LZ4Compressor stores payloads as raw LZ4 blocks, without a frame header.
//
// Block format carries no length, so DecompressSize with the size recorded in the
// blob header is the preferred read path.
type LZ4Compressor struct{}

var (
	_ Codec             = (*LZ4Compressor)(nil)
	_ SizedDecompressor = (*LZ4Compressor)(nil)
)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data into a single LZ4 block.
//
// Returns nil for empty input. Incompressible input, which LZ4 reports as a zero
// length block, is an error: the blob layer falls back to storing it uncompressed.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errs.ErrIncompressible
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block of unknown decompressed size.
//
// It starts with a buffer 4x the input and doubles it on
// lz4.ErrInvalidSourceShortBuffer, up to 128MiB.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	for bufSize := len(data) * 4; bufSize <= maxLZ4DecodeSize; bufSize *= 2 {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, err
		}
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}

// DecompressSize decompresses an LZ4 block whose decompressed size is known.
//
// size comes from an untrusted header, so it is rejected with errs.ErrDecodedSizeRange
// before allocating when it exceeds 128MiB or what data could expand to.
func (c LZ4Compressor) DecompressSize(data []byte, size int) ([]byte, error) {
	if len(data) == 0 || size == 0 {
		return nil, nil
	}
	if size < 0 || size > maxLZ4DecodeSize || size > len(data)*lz4MaxRatio {
		return nil, fmt.Errorf("%w: lz4 block of %d bytes cannot expand to %d bytes", errs.ErrDecodedSizeRange, len(data), size)
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}

	return buf[:n], nil
}
