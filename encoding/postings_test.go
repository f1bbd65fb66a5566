package encoding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dgap/errs"
)

func TestDeltaPostings_Iterate(t *testing.T) {
	p := NewDeltaPostings(EncodeList([]uint32{12, 3, 7}))

	got, err := ExpandPostings(p)
	require.NoError(t, err)
	require.Equal(t, []uint32{3, 7, 12}, got)
}

func TestDeltaPostings_EmptyBuffer(t *testing.T) {
	p := NewDeltaPostings(nil)
	require.Equal(t, EmptyPostings(), p)
	require.False(t, p.Next())
	require.NoError(t, p.Err())
}

func TestDeltaPostings_Seek(t *testing.T) {
	data := EncodeList([]uint32{2, 4, 6, 8, 10})

	tests := []struct {
		name   string
		seeks  []uint32
		wantAt []uint32
		wantOK []bool
	}{
		{"seek zero before next", []uint32{0}, []uint32{2}, []bool{true}},
		{"seek exact", []uint32{6}, []uint32{6}, []bool{true}},
		{"seek between", []uint32{7}, []uint32{8}, []bool{true}},
		{"seek never moves back", []uint32{8, 3}, []uint32{8, 8}, []bool{true, true}},
		{"seek past end", []uint32{11}, []uint32{10}, []bool{false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewDeltaPostings(data)
			for i, v := range tt.seeks {
				ok := p.Seek(v)
				require.Equal(t, tt.wantOK[i], ok)
				if ok {
					require.Equal(t, tt.wantAt[i], p.At())
				}
			}
			require.NoError(t, p.Err())
		})
	}
}

func TestDeltaPostings_Errors(t *testing.T) {
	p := NewDeltaPostings([]byte{0x01, 0x80})
	require.True(t, p.Next())
	require.Equal(t, uint32(1), p.At())
	require.False(t, p.Next())
	require.ErrorIs(t, p.Err(), errs.ErrVarintTruncated)

	_, err := ExpandPostings(NewDeltaPostings([]byte{0x80, 0x80, 0x80, 0x80, 0x80}))
	require.ErrorIs(t, err, errs.ErrVarintOverflow)

	_, err = ExpandPostings(NewDeltaPostings([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F, 0x01}))
	require.ErrorIs(t, err, errs.ErrPostingsOverflow)
}

func TestDeltaPostings_GapSumOverflow(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F, 0x01}

	p := NewDeltaPostings(data)
	require.True(t, p.Next())
	require.Equal(t, uint32(0xFFFFFFFF), p.At())
	require.False(t, p.Next())
	require.ErrorIs(t, p.Err(), errs.ErrPostingsOverflow)

	ids, err := DecodeList(data)
	require.ErrorIs(t, err, errs.ErrPostingsOverflow)
	require.Empty(t, ids)
}

func TestListPostings_Seek(t *testing.T) {
	p := NewListPostings([]uint32{1, 3, 3, 5, 9})

	require.True(t, p.Seek(3))
	require.Equal(t, uint32(3), p.At())
	require.True(t, p.Next())
	require.Equal(t, uint32(3), p.At())
	require.True(t, p.Seek(4))
	require.Equal(t, uint32(5), p.At())
	require.False(t, p.Seek(10))
	require.False(t, p.Next())
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name  string
		lists [][]uint32
		want  []uint32
	}{
		{"two lists", [][]uint32{{2, 4, 6, 8}, {6, 8, 10, 12}}, []uint32{6, 8}},
		{"three lists", [][]uint32{{1, 2, 3, 4, 5}, {2, 3, 5, 7}, {3, 5, 8}}, []uint32{3, 5}},
		{"disjoint", [][]uint32{{1, 3, 5}, {2, 4, 6}}, nil},
		{"single list", [][]uint32{{4, 2}}, []uint32{2, 4}},
		{"zero id", [][]uint32{{0, 1}, {0, 2}}, []uint32{0}},
		{"one empty", [][]uint32{{1, 2}, {}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			its := make([]Postings, 0, len(tt.lists))
			for _, l := range tt.lists {
				its = append(its, NewDeltaPostings(EncodeList(l)))
			}

			got, err := ExpandPostings(Intersect(its...))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestIntersect_NoInput(t *testing.T) {
	require.Equal(t, EmptyPostings(), Intersect())
}

func TestIntersect_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	p := Intersect(NewListPostings([]uint32{1}), ErrPostings(boom))
	require.False(t, p.Next())
	require.ErrorIs(t, p.Err(), boom)
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		lists [][]uint32
		want  []uint32
	}{
		{"two lists", [][]uint32{{2, 4, 6, 8}, {6, 8, 10, 12}}, []uint32{2, 4, 6, 8, 10, 12}},
		{"with empty", [][]uint32{{}, {3, 1}}, []uint32{1, 3}},
		{"all empty", [][]uint32{{}, {}}, nil},
		{"duplicates collapse", [][]uint32{{1, 1, 2}, {1, 2, 2}}, []uint32{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			its := make([]Postings, 0, len(tt.lists))
			for _, l := range tt.lists {
				its = append(its, NewDeltaPostings(EncodeList(l)))
			}

			got, err := ExpandPostings(Merge(its...))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_Seek(t *testing.T) {
	p := Merge(NewListPostings([]uint32{1, 5, 9}), NewListPostings([]uint32{2, 6, 10}))

	require.True(t, p.Seek(6))
	require.Equal(t, uint32(6), p.At())
	require.True(t, p.Next())
	require.Equal(t, uint32(9), p.At())
	require.False(t, p.Seek(11))
}

func TestMerge_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	p := Merge(NewListPostings([]uint32{1}), ErrPostings(boom))
	require.False(t, p.Next())
	require.ErrorIs(t, p.Err(), boom)
}

func TestWithout(t *testing.T) {
	full := NewListPostings([]uint32{1, 2, 3, 4, 5, 6})
	drop := NewListPostings([]uint32{2, 4, 7})

	got, err := ExpandPostings(Without(full, drop))
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 3, 5, 6}, got)

	require.Equal(t, EmptyPostings(), Without(EmptyPostings(), drop))

	kept := NewListPostings([]uint32{1})
	require.Equal(t, kept, Without(kept, EmptyPostings()))
}

func BenchmarkIntersect(b *testing.B) {
	a := EncodeList(generateIDs(100000, 4, 1))
	c := EncodeList(generateIDs(100000, 4, 2))

	b.ReportAllocs()
	for b.Loop() {
		_, _ = ExpandPostings(Intersect(NewDeltaPostings(a), NewDeltaPostings(c)))
	}
}
