package index

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/arloliu/dgap/encoding"
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/internal/collision"
	"github.com/arloliu/dgap/internal/hash"
)

// DocPosition identifies one row of a Table: a position within a document.
type DocPosition struct {
	DocID    uint32
	Position uint32
}

// Key returns the 32-bit cell key of p, the FNV-1a hash of "doc_<id>_pos_<position>".
func (p DocPosition) Key() uint32 {
	buf := make([]byte, 0, 32)
	buf = append(buf, "doc_"...)
	buf = strconv.AppendUint(buf, uint64(p.DocID), 10)
	buf = append(buf, "_pos_"...)
	buf = strconv.AppendUint(buf, uint64(p.Position), 10)

	return hash.ID32(string(buf))
}

func compareDocPosition(a, b DocPosition) int {
	if c := cmp.Compare(a.DocID, b.DocID); c != 0 {
		return c
	}

	return cmp.Compare(a.Position, b.Position)
}

// TermValue is a column value condition.
type TermValue struct {
	Column string
	Value  string
}

// Term returns the index term of v, "arch_<column>_value_<value>".
func (v TermValue) Term() string {
	return "arch_" + v.Column + "_value_" + v.Value
}

type cellColumn struct {
	key    uint32
	column string
}

// Table stores multi-column rows on top of an Index.
//
// Each (column, value) pair is an index term whose postings list holds the cell
// keys of the rows carrying that value; the keys map back to rows through a
// collision tracker. A row has at most one value per column.
//
// Table is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	index   *Index
	cells   *collision.Tracker[uint32, DocPosition]
	values  map[cellColumn]string
	columns map[string]map[string]struct{}
}

// NewTable creates an empty table. opts configure the underlying index.
func NewTable(opts ...Option) (*Table, error) {
	idx, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return &Table{
		index:   idx,
		cells:   collision.NewTracker[uint32, DocPosition](),
		values:  make(map[cellColumn]string),
		columns: make(map[string]map[string]struct{}),
	}, nil
}

// Index returns the underlying index.
func (t *Table) Index() *Index {
	return t.index
}

// Set stores value in column for the row (docID, position), replacing the
// previous value of that cell.
//
// Two rows whose cell keys collide cannot coexist; the second one is rejected with
// errs.ErrHashCollision. A failed Set leaves the cell and its index terms unchanged.
func (t *Table) Set(column, value string, docID, position uint32) error {
	if column == "" {
		return errs.ErrInvalidTerm
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	pos := DocPosition{DocID: docID, Position: position}
	key := pos.Key()
	added, err := t.cells.Track(key, pos)
	if err != nil {
		return fmt.Errorf("cell doc %d position %d: %w", docID, position, err)
	}

	cc := cellColumn{key: key, column: column}
	old, replacing := t.values[cc]
	if replacing && old == value {
		return nil
	}

	term := TermValue{Column: column, Value: value}.Term()
	existed := t.index.Has(term)
	if err := t.index.Add(term, key); err != nil {
		if added {
			t.cells.Untrack(key)
		}

		return err
	}

	// the old value goes only after the new one is stored; a failure rolls the new one back
	if replacing {
		if _, err := t.index.Remove(TermValue{Column: column, Value: old}.Term(), key); err != nil {
			if existed {
				_, _ = t.index.Remove(term, key)
			} else {
				t.index.Delete(term)
			}

			return err
		}
	}

	t.values[cc] = value
	if t.columns[column] == nil {
		t.columns[column] = make(map[string]struct{})
	}
	t.columns[column][value] = struct{}{}

	return nil
}

// Get returns the value of column for the row (docID, position).
func (t *Table) Get(column string, docID, position uint32) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pos := DocPosition{DocID: docID, Position: position}
	v, ok := t.values[cellColumn{key: pos.Key(), column: column}]

	return v, ok
}

// Lookup returns the rows holding value in column, ordered by document then position.
func (t *Table) Lookup(column, value string) ([]DocPosition, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.lookupLocked(TermValue{Column: column, Value: value})
}

// Column returns the rows of every value of column, keyed by value.
func (t *Table) Column(column string) (map[string][]DocPosition, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string][]DocPosition, len(t.columns[column]))
	for value := range t.columns[column] {
		rows, err := t.lookupLocked(TermValue{Column: column, Value: value})
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			out[value] = rows
		}
	}

	return out, nil
}

// Columns returns the column names in ascending order.
func (t *Table) Columns() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.columns))
	for name := range t.columns {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Match returns the ascending ids of the documents that satisfy every condition.
//
// Conditions may be met by different rows of the same document. No conditions
// match nothing.
func (t *Table) Match(conds ...TermValue) ([]uint32, error) {
	if len(conds) == 0 {
		return nil, nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	its := make([]encoding.Postings, 0, len(conds))
	for _, cond := range conds {
		rows, err := t.lookupLocked(cond)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, nil
		}

		docs := make([]uint32, len(rows))
		for i, row := range rows {
			docs[i] = row.DocID
		}
		its = append(its, encoding.NewListPostings(slices.Compact(docs)))
	}

	return encoding.ExpandPostings(encoding.Intersect(its...))
}

func (t *Table) lookupLocked(cond TermValue) ([]DocPosition, error) {
	keys, err := t.index.Postings(cond.Term())
	if err != nil {
		return nil, err
	}

	rows := make([]DocPosition, 0, len(keys))
	for _, key := range keys {
		pos, ok := t.cells.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("unknown cell key %d in %q", key, cond.Term())
		}
		rows = append(rows, pos)
	}
	slices.SortFunc(rows, compareDocPosition)

	return rows, nil
}
