package compress

import (
	"bytes"
	"fmt"
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dgap/encoding"
	"github.com/arloliu/dgap/endian"
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/format"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp": NewNoOpCompressor(),
		"LZ4":  NewLZ4Compressor(),
		"S2":   NewS2Compressor(),
		"Zstd": NewZstdCompressor(),
	}
}

// densePayload returns a delta payload of n ids with a repeating gap pattern.
func densePayload(n int) []byte {
	ids := make([]uint32, n)
	var id uint32
	for i := range ids {
		id += uint32(1 + i%3)
		ids[i] = id
	}

	return encoding.EncodeList(ids)
}

// rawPayload returns a fixed-width payload of n ids spaced by stride.
func rawPayload(n int, stride uint32) []byte {
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = uint32(i) * stride
	}

	return encoding.NewRawListCodec(endian.GetLittleEndianEngine()).Encode(ids)
}

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		cType    format.CompressionType
		expected string
	}{
		{format.CompressionNone, "None"},
		{format.CompressionZstd, "Zstd"},
		{format.CompressionS2, "S2"},
		{format.CompressionLZ4, "LZ4"},
		{format.CompressionType(0xFF), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.cType.String())
		})
	}
}

func TestCompressionStats_Calculations(t *testing.T) {
	tests := []struct {
		name            string
		stats           CompressionStats
		expectedRatio   float64
		expectedSavings float64
	}{
		{
			name:            "good compression",
			stats:           CompressionStats{Algorithm: format.CompressionZstd, OriginalSize: 1000, CompressedSize: 300},
			expectedRatio:   0.3,
			expectedSavings: 70.0,
		},
		{
			name:            "no compression benefit",
			stats:           CompressionStats{Algorithm: format.CompressionNone, OriginalSize: 500, CompressedSize: 500},
			expectedRatio:   1.0,
			expectedSavings: 0.0,
		},
		{
			name:            "compression overhead",
			stats:           CompressionStats{Algorithm: format.CompressionS2, OriginalSize: 100, CompressedSize: 120},
			expectedRatio:   1.2,
			expectedSavings: -20.0,
		},
		{
			name:            "empty payload",
			stats:           CompressionStats{Algorithm: format.CompressionLZ4},
			expectedRatio:   0.0,
			expectedSavings: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.expectedRatio, tt.stats.CompressionRatio(), 0.001)
			require.InDelta(t, tt.expectedSavings, tt.stats.SpaceSavings(), 0.001)
		})
	}
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Nil(t, compressed)

			decompressed, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Nil(t, decompressed)

			compressed, err = codec.Compress([]byte{})
			require.NoError(t, err)

			decompressed, err = codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"single_id", encoding.EncodeList([]uint32{42})},
		{"small_delta", densePayload(16)},
		{"dense_delta", densePayload(10000)},
		{"large_delta", densePayload(250000)},
		{"sparse_delta", encoding.EncodeList([]uint32{1, 1 << 20, 1 << 25, 1 << 30, 1<<31 + 7})},
		{"raw_ids", rawPayload(4096, 17)},
		{"all_zero_gaps", make([]byte, 64*1024)},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)
					require.NotNil(t, compressed)

					t.Logf("payload %d bytes, stored %d bytes", len(tc.data), len(compressed))

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalidInputs := []struct {
		name string
		data []byte
	}{
		{"random_bytes", []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"text_as_compressed", []byte("this is not compressed data")},
		{"corrupted_header", []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			if codecName == "NoOp" {
				t.Skip("NoOp codec doesn't validate data")
			}

			for _, input := range invalidInputs {
				t.Run(input.name, func(t *testing.T) {
					_, err := codec.Decompress(input.data)
					require.Error(t, err)
				})
			}
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const numGoroutines = 20
	payload := densePayload(2048)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			done := make(chan error, numGoroutines*2)
			for range numGoroutines {
				go func() {
					_, err := codec.Compress(payload)
					done <- err
				}()
				go func() {
					decompressed, err := codec.Decompress(compressed)
					if err != nil {
						done <- err
						return
					}
					if !bytes.Equal(payload, decompressed) {
						done <- fmt.Errorf("decompressed payload mismatch")
						return
					}
					done <- nil
				}()
			}

			for range numGoroutines * 2 {
				require.NoError(t, <-done)
			}
		})
	}
}

func TestAllCodecs_CompressRepetitiveGaps(t *testing.T) {
	// a contiguous range encodes to one 0x01 byte per id
	original := bytes.Repeat([]byte{0x01}, 1024*1024)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(original)
			require.NoError(t, err)

			if codecName == "NoOp" {
				require.Len(t, compressed, len(original))
			} else {
				require.Less(t, len(compressed), len(original)/10)
			}

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, original, decompressed)
		})
	}
}

func TestCreateCodec(t *testing.T) {
	for _, cType := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		codec, err := CreateCodec(cType, "postings")
		require.NoError(t, err)
		require.NotNil(t, codec)

		builtin, err := GetCodec(cType)
		require.NoError(t, err)
		require.IsType(t, builtin, codec)
	}

	_, err := CreateCodec(format.CompressionType(0), "postings")
	require.ErrorContains(t, err, "invalid postings compression")

	_, err = GetCodec(format.CompressionType(0x9))
	require.Error(t, err)
}

func TestCompressWithStats(t *testing.T) {
	payload := densePayload(50000)

	for _, cType := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		t.Run(cType.String(), func(t *testing.T) {
			stored, stats, err := CompressWithStats(cType, payload)
			require.NoError(t, err)
			require.Equal(t, cType, stats.Algorithm)
			require.Equal(t, int64(len(payload)), stats.OriginalSize)
			require.Equal(t, int64(len(stored)), stats.CompressedSize)
			require.GreaterOrEqual(t, stats.CompressionTimeNs, int64(0))

			restored, err := Decompress(cType, stored, len(payload))
			require.NoError(t, err)
			require.Equal(t, payload, restored)

			restored, err = Decompress(cType, stored, -1)
			require.NoError(t, err)
			require.Equal(t, payload, restored)
		})
	}

	_, _, err := CompressWithStats(format.CompressionType(0), payload)
	require.Error(t, err)
}

func TestDecompress_SizeMismatch(t *testing.T) {
	payload := densePayload(1000)

	stored, err := NewS2Compressor().Compress(payload)
	require.NoError(t, err)

	_, err = Decompress(format.CompressionS2, stored, len(payload)+1)
	require.ErrorContains(t, err, "expected")

	_, err = Decompress(format.CompressionNone, payload, len(payload)-1)
	require.Error(t, err)
}

func TestLZ4Compressor_DecompressSize(t *testing.T) {
	payload := densePayload(5000)
	codec := NewLZ4Compressor()

	stored, err := codec.Compress(payload)
	require.NoError(t, err)

	restored, err := codec.DecompressSize(stored, len(payload))
	require.NoError(t, err)
	require.Equal(t, payload, restored)

	_, err = codec.DecompressSize(stored, len(payload)/2)
	require.Error(t, err)

	restored, err = codec.DecompressSize(nil, 0)
	require.NoError(t, err)
	require.Nil(t, restored)
}

func TestLZ4Compressor_DecompressSizeBounds(t *testing.T) {
	codec := NewLZ4Compressor()
	stored, err := codec.Compress(densePayload(5000))
	require.NoError(t, err)

	tests := []struct {
		name string
		size int
	}{
		{"negative", -1},
		{"beyond block expansion", len(stored)*lz4MaxRatio + 1},
		{"beyond decode limit", maxLZ4DecodeSize + 1},
		{"max int32", math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)

			_, err := codec.DecompressSize(stored, tt.size)
			require.ErrorIs(t, err, errs.ErrDecodedSizeRange)

			runtime.ReadMemStats(&after)
			require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
		})
	}

	_, err = Decompress(format.CompressionLZ4, stored, math.MaxInt32)
	require.ErrorIs(t, err, errs.ErrDecodedSizeRange)
}

func TestNoOpCompressor_SharesMemory(t *testing.T) {
	payload := densePayload(10)

	stored, err := NewNoOpCompressor().Compress(payload)
	require.NoError(t, err)
	require.Same(t, &payload[0], &stored[0])
}
