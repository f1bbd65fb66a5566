package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dgap/blob"
	"github.com/arloliu/dgap/endian"
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/internal/hash"
	"github.com/arloliu/dgap/section"
)

// newSampleTable loads a six-row table over two documents:
//
//	      col0  col1  col2  col3  col4  col5
//	d0 p0  -     b     c     d     e     f
//	d0 p1  gg    -     i     j     k     zz
//	d0 p2  m     n     -     p     q     r
//	d1 p3  s     t     u     -     w     x
//	d1 p4  y     z     0     1     -     zz
//	d1 p5  4     5     6     7     8     -
func newSampleTable(t *testing.T) *Table {
	t.Helper()

	table, err := NewTable()
	require.NoError(t, err)

	rows := []struct {
		doc, pos uint32
		values   []string
	}{
		{0, 0, []string{"", "b", "c", "d", "e", "f"}},
		{0, 1, []string{"gg", "", "i", "j", "k", "zz"}},
		{0, 2, []string{"m", "n", "", "p", "q", "r"}},
		{1, 3, []string{"s", "t", "u", "", "w", "x"}},
		{1, 4, []string{"y", "z", "0", "1", "", "zz"}},
		{1, 5, []string{"4", "5", "6", "7", "8", ""}},
	}
	columns := []string{"col0", "col1", "col2", "col3", "col4", "col5"}

	for _, row := range rows {
		for c, value := range row.values {
			if value == "" {
				continue
			}
			require.NoError(t, table.Set(columns[c], value, row.doc, row.pos))
		}
	}

	return table
}

func TestDocPosition_Key(t *testing.T) {
	pos := DocPosition{DocID: 12, Position: 3}
	require.Equal(t, hash.ID32("doc_12_pos_3"), pos.Key())
	require.NotEqual(t, pos.Key(), DocPosition{DocID: 1, Position: 23}.Key())
}

func TestTermValue_Term(t *testing.T) {
	require.Equal(t, "arch_col0_value_gg", TermValue{Column: "col0", Value: "gg"}.Term())
}

func TestTable_Lookup(t *testing.T) {
	table := newSampleTable(t)

	rows, err := table.Lookup("col5", "zz")
	require.NoError(t, err)
	require.Equal(t, []DocPosition{{0, 1}, {1, 4}}, rows)

	rows, err = table.Lookup("col0", "gg")
	require.NoError(t, err)
	require.Equal(t, []DocPosition{{0, 1}}, rows)

	rows, err = table.Lookup("col0", "missing")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestTable_Column(t *testing.T) {
	table := newSampleTable(t)

	col, err := table.Column("col3")
	require.NoError(t, err)
	require.Equal(t, map[string][]DocPosition{
		"d": {{0, 0}},
		"j": {{0, 1}},
		"p": {{0, 2}},
		"1": {{1, 4}},
		"7": {{1, 5}},
	}, col)

	require.Equal(t, []string{"col0", "col1", "col2", "col3", "col4", "col5"}, table.Columns())
}

func TestTable_Match(t *testing.T) {
	table := newSampleTable(t)

	tests := []struct {
		name  string
		conds []TermValue
		want  []uint32
	}{
		{"gg in col0 and zz in col5", []TermValue{{"col0", "gg"}, {"col5", "zz"}}, []uint32{0}},
		{"zz in col5", []TermValue{{"col5", "zz"}}, []uint32{0, 1}},
		{"conditions on different rows", []TermValue{{"col0", "m"}, {"col4", "e"}}, []uint32{0}},
		{"no document", []TermValue{{"col0", "gg"}, {"col0", "s"}}, nil},
		{"unknown value", []TermValue{{"col0", "nope"}}, nil},
		{"no conditions", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Match(tt.conds...)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTable_SetReplacesValue(t *testing.T) {
	table := newSampleTable(t)

	require.NoError(t, table.Set("col5", "changed", 0, 1))

	value, ok := table.Get("col5", 0, 1)
	require.True(t, ok)
	require.Equal(t, "changed", value)

	rows, err := table.Lookup("col5", "zz")
	require.NoError(t, err)
	require.Equal(t, []DocPosition{{1, 4}}, rows)

	got, err := table.Match(TermValue{"col0", "gg"}, TermValue{"col5", "zz"})
	require.NoError(t, err)
	require.Empty(t, got)

	// setting the same value again is a no-op
	require.NoError(t, table.Set("col5", "changed", 0, 1))
	rows, err = table.Lookup("col5", "changed")
	require.NoError(t, err)
	require.Equal(t, []DocPosition{{0, 1}}, rows)
}

// corruptBlob returns a correctly signed blob whose payload is a truncated varint.
func corruptBlob(t *testing.T) blob.PostingsBlob {
	t.Helper()

	valid, err := blob.NewPostingsEncoder()
	require.NoError(t, err)
	b, err := valid.Encode([]uint32{1})
	require.NoError(t, err)

	engine := endian.GetLittleEndianEngine()
	data := append([]byte(nil), b.Bytes()[:section.HeaderSize]...)
	data = append(data, 0x80)
	engine.PutUint32(data[8:12], 1)
	engine.PutUint32(data[section.ChecksumOffset:section.PayloadOffset],
		hash.BlobChecksum(data[:section.ChecksumOffset], data[section.PayloadOffset:]))

	corrupt, err := blob.DecodePostingsBlob(data)
	require.NoError(t, err)

	return corrupt
}

func TestTable_SetFailedAddKeepsOldValue(t *testing.T) {
	table := newSampleTable(t)
	newTerm := TermValue{"col5", "changed"}.Term()

	// another term already owns the dictionary key of the new value
	_, err := table.index.terms.Track(hash.ID(newTerm), "other term")
	require.NoError(t, err)

	require.ErrorIs(t, table.Set("col5", "changed", 0, 1), errs.ErrHashCollision)

	value, ok := table.Get("col5", 0, 1)
	require.True(t, ok)
	require.Equal(t, "zz", value)

	rows, err := table.Lookup("col5", "zz")
	require.NoError(t, err)
	require.Equal(t, []DocPosition{{0, 1}, {1, 4}}, rows)
}

func TestTable_SetFailedRemoveRollsBack(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		existing bool
	}{
		{"new value", "changed", false},
		{"existing value", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newSampleTable(t)
			oldTerm := TermValue{"col5", "zz"}.Term()
			newTerm := TermValue{"col5", tt.value}.Term()
			before, err := table.Lookup("col5", tt.value)
			require.NoError(t, err)

			table.index.lists[hash.ID(oldTerm)] = corruptBlob(t)

			err = table.Set("col5", tt.value, 0, 1)
			require.ErrorIs(t, err, errs.ErrVarintTruncated)

			value, ok := table.Get("col5", 0, 1)
			require.True(t, ok)
			require.Equal(t, "zz", value)

			require.Equal(t, tt.existing, table.Index().Has(newTerm))
			after, err := table.Lookup("col5", tt.value)
			require.NoError(t, err)
			require.Equal(t, before, after)
		})
	}
}

func TestTable_Get(t *testing.T) {
	table := newSampleTable(t)

	value, ok := table.Get("col2", 1, 4)
	require.True(t, ok)
	require.Equal(t, "0", value)

	_, ok = table.Get("col0", 0, 0)
	require.False(t, ok)
}

func TestTable_InvalidColumn(t *testing.T) {
	table, err := NewTable()
	require.NoError(t, err)

	require.ErrorIs(t, table.Set("", "v", 0, 0), errs.ErrInvalidTerm)
}

func TestTable_CellCollision(t *testing.T) {
	table, err := NewTable()
	require.NoError(t, err)

	// pretend another row already owns the key of d0 p0
	_, err = table.cells.Track(DocPosition{0, 0}.Key(), DocPosition{DocID: 99, Position: 99})
	require.NoError(t, err)

	require.ErrorIs(t, table.Set("col0", "a", 0, 0), errs.ErrHashCollision)
	require.Equal(t, 0, table.Index().Len())
}
