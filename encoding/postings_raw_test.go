package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dgap/endian"
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/format"
)

func TestRawListCodec_ByteOrder(t *testing.T) {
	ids := []uint32{0x01020304, 0x05}

	le := NewRawListCodec(endian.GetLittleEndianEngine())
	require.Equal(t, format.TypeRaw, le.Type())
	require.Equal(t, []byte{0x05, 0, 0, 0, 0x04, 0x03, 0x02, 0x01}, le.Encode(ids))

	be := NewRawListCodec(endian.GetBigEndianEngine())
	require.Equal(t, []byte{0, 0, 0, 0x05, 0x01, 0x02, 0x03, 0x04}, be.Encode(ids))

	decoded, err := be.Decode(be.Encode(ids))
	require.NoError(t, err)
	require.Equal(t, []uint32{0x05, 0x01020304}, decoded)
}

func TestRawListCodec_NilEngineDefaultsToLittleEndian(t *testing.T) {
	require.Equal(t, []byte{0x01, 0, 0, 0}, NewRawListCodec(nil).Encode([]uint32{1}))
}

func TestRawListCodec_RoundTrip(t *testing.T) {
	codec := NewRawListCodec(endian.GetLittleEndianEngine())
	ids := generateIDs(2000, 1<<16, 11)

	data := codec.Encode(ids)
	require.Len(t, data, len(ids)*4)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	require.Equal(t, sortedCopy(ids), decoded)

	iterated, err := ExpandPostings(codec.Postings(data))
	require.NoError(t, err)
	require.Equal(t, decoded, iterated)
}

func TestRawListCodec_Empty(t *testing.T) {
	codec := NewRawListCodec(nil)
	require.Empty(t, codec.Encode(nil))

	ids, err := codec.Decode(nil)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestRawListCodec_InvalidLength(t *testing.T) {
	codec := NewRawListCodec(nil)

	_, err := codec.Decode([]byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrInvalidRawLength)

	p := codec.Postings([]byte{1, 2, 3, 4, 5})
	require.False(t, p.Next())
	require.ErrorIs(t, p.Err(), errs.ErrInvalidRawLength)
}

func TestRawListCodec_At(t *testing.T) {
	codec := NewRawListCodec(nil)
	data := codec.Encode([]uint32{30, 10, 20})

	tests := []struct {
		index  int
		want   uint32
		wantOK bool
	}{
		{0, 10, true},
		{1, 20, true},
		{2, 30, true},
		{3, 0, false},
		{-1, 0, false},
	}

	for _, tt := range tests {
		got, ok := codec.At(data, tt.index)
		require.Equal(t, tt.wantOK, ok, "index %d", tt.index)
		require.Equal(t, tt.want, got, "index %d", tt.index)
	}
}

func TestGetListCodec(t *testing.T) {
	codec, err := GetListCodec(format.TypeDelta, nil)
	require.NoError(t, err)
	require.IsType(t, DeltaListCodec{}, codec)

	codec, err = GetListCodec(format.TypeRaw, endian.GetBigEndianEngine())
	require.NoError(t, err)
	require.IsType(t, RawListCodec{}, codec)

	_, err = GetListCodec(format.EncodingType(0x7), nil)
	require.Error(t, err)
}

func TestDeltaVersusRawSize(t *testing.T) {
	ids := generateIDs(10000, 8, 5)

	delta := NewDeltaListCodec().Encode(ids)
	raw := NewRawListCodec(nil).Encode(ids)

	require.Len(t, delta, len(ids))
	require.Len(t, raw, len(ids)*4)
}
