package index

import (
	"bytes"
	"errors"
	"slices"
	"sync"

	"github.com/blevesearch/vellum"
)

// dictionary is a sorted term dictionary backed by a vellum FST.
//
// The FST is immutable, so writes only mark the dictionary stale and the next
// prefix query rebuilds it from the current terms.
type dictionary struct {
	mu    sync.Mutex
	fst   *vellum.FST
	stale bool
}

func newDictionary() *dictionary {
	return &dictionary{stale: true}
}

// invalidate marks the FST as out of date.
func (d *dictionary) invalidate() {
	d.mu.Lock()
	d.stale = true
	d.mu.Unlock()
}

// prefix returns the terms starting with prefix in ascending byte order.
//
// terms supplies the current term set when a rebuild is needed; the caller must
// keep it stable for the duration of the call.
func (d *dictionary) prefix(prefix string, terms func() []string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stale {
		fst, err := buildFST(terms())
		if err != nil {
			return nil, err
		}
		d.fst = fst
		d.stale = false
	}

	if d.fst == nil {
		return nil, nil
	}

	var matches []string
	itr, err := d.fst.Iterator([]byte(prefix), prefixEnd([]byte(prefix)))
	for err == nil {
		key, _ := itr.Current()
		matches = append(matches, string(key))
		err = itr.Next()
	}
	if !errors.Is(err, vellum.ErrIteratorDone) {
		return nil, err
	}

	return matches, nil
}

// buildFST builds an FST over terms. It returns nil for an empty term set.
func buildFST(terms []string) (*vellum.FST, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	slices.Sort(terms)

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, err
	}

	for i, term := range terms {
		if err := builder.Insert([]byte(term), uint64(i)); err != nil { //nolint:gosec
			return nil, err
		}
	}

	if err := builder.Close(); err != nil {
		return nil, err
	}

	return vellum.Load(buf.Bytes())
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix, or nil when no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := slices.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}

	return nil
}
