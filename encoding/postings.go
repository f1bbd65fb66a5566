package encoding

import (
	"container/heap"
	"slices"

	"github.com/arloliu/dgap/errs"
)

// Postings provides iterative access over an ascending postings list.
type Postings interface {
	// Next advances the iterator and returns true if another value was found.
	Next() bool

	// Seek advances the iterator to value v or greater and returns
	// true if a value was found. Seek never moves backwards.
	Seek(v uint32) bool

	// At returns the value at the current iterator position.
	At() uint32

	// Err returns the last error of the iterator.
	Err() error
}

// ExpandPostings returns the postings expanded as a slice.
func ExpandPostings(p Postings) ([]uint32, error) {
	var res []uint32
	for p.Next() {
		res = append(res, p.At())
	}
	if err := p.Err(); err != nil {
		return nil, err
	}

	return res, nil
}

// errPostings is an empty iterator that always errors.
type errPostings struct {
	err error
}

func (e errPostings) Next() bool       { return false }
func (e errPostings) Seek(uint32) bool { return false }
func (e errPostings) At() uint32       { return 0 }
func (e errPostings) Err() error       { return e.err }

var emptyPostings = errPostings{}

// EmptyPostings returns a postings list that's always empty.
//
// Intersect, Merge and Without recognize it and short-circuit.
func EmptyPostings() Postings {
	return emptyPostings
}

// ErrPostings returns new postings that immediately error.
func ErrPostings(err error) Postings {
	return errPostings{err}
}

// deltaPostings walks a d-gap buffer without decoding it up front.
type deltaPostings struct {
	data    []byte
	cur     uint32
	started bool
	err     error
}

// NewDeltaPostings returns an iterator over a buffer produced by EncodeList.
//
// Decoding errors stop the iteration and are reported by Err.
func NewDeltaPostings(data []byte) Postings {
	if len(data) == 0 {
		return EmptyPostings()
	}

	return &deltaPostings{data: data}
}

func (it *deltaPostings) At() uint32 {
	return it.cur
}

func (it *deltaPostings) Next() bool {
	if it.err != nil || len(it.data) == 0 {
		return false
	}

	gap, n, err := Uvarint32(it.data)
	if err != nil {
		it.err = err
		return false
	}
	next := it.cur + gap
	if next < it.cur {
		it.err = errs.ErrPostingsOverflow
		return false
	}

	it.cur = next
	it.started = true
	it.data = it.data[n:]

	return true
}

func (it *deltaPostings) Seek(x uint32) bool {
	if it.started && it.cur >= x {
		return true
	}
	for it.Next() {
		if it.cur >= x {
			return true
		}
	}

	return false
}

func (it *deltaPostings) Err() error {
	return it.err
}

// ListPostings implements the Postings interface over a plain ascending list.
type ListPostings struct {
	list    []uint32
	cur     uint32
	started bool
}

// NewListPostings returns an iterator over list. list must be ascending.
func NewListPostings(list []uint32) Postings {
	return &ListPostings{list: list}
}

func (it *ListPostings) At() uint32 {
	return it.cur
}

func (it *ListPostings) Next() bool {
	if len(it.list) > 0 {
		it.cur = it.list[0]
		it.list = it.list[1:]
		it.started = true

		return true
	}
	it.cur = 0

	return false
}

func (it *ListPostings) Seek(x uint32) bool {
	if it.started && it.cur >= x {
		return true
	}
	if len(it.list) == 0 {
		return false
	}

	i, _ := slices.BinarySearch(it.list, x)
	if i < len(it.list) {
		it.cur = it.list[i]
		it.list = it.list[i+1:]
		it.started = true

		return true
	}
	it.list = nil

	return false
}

func (it *ListPostings) Err() error {
	return nil
}

// Intersect returns a new postings list over the intersection of the
// input postings.
func Intersect(its ...Postings) Postings {
	if len(its) == 0 {
		return EmptyPostings()
	}
	if len(its) == 1 {
		return its[0]
	}
	for _, p := range its {
		if p == EmptyPostings() {
			return EmptyPostings()
		}
	}

	return newIntersectPostings(its...)
}

type intersectPostings struct {
	arr []Postings
	cur uint32
}

func newIntersectPostings(its ...Postings) *intersectPostings {
	return &intersectPostings{arr: its}
}

func (it *intersectPostings) At() uint32 {
	return it.cur
}

func (it *intersectPostings) doNext() bool {
Loop:
	for {
		for _, p := range it.arr {
			if !p.Seek(it.cur) {
				return false
			}
			if p.At() > it.cur {
				it.cur = p.At()
				continue Loop
			}
		}

		return true
	}
}

func (it *intersectPostings) Next() bool {
	for _, p := range it.arr {
		if !p.Next() {
			return false
		}
		if p.At() > it.cur {
			it.cur = p.At()
		}
	}

	return it.doNext()
}

func (it *intersectPostings) Seek(id uint32) bool {
	if id > it.cur {
		it.cur = id
	}

	return it.doNext()
}

func (it *intersectPostings) Err() error {
	for _, p := range it.arr {
		if err := p.Err(); err != nil {
			return err
		}
	}

	return nil
}

// Merge returns a new iterator over the union of the input iterators.
//
// Ids present in several inputs are yielded once.
func Merge(its ...Postings) Postings {
	if len(its) == 0 {
		return EmptyPostings()
	}
	if len(its) == 1 {
		return its[0]
	}

	p, ok := newMergedPostings(its)
	if !ok {
		return EmptyPostings()
	}

	return p
}

type postingsHeap []Postings

func (h postingsHeap) Len() int           { return len(h) }
func (h postingsHeap) Less(i, j int) bool { return h[i].At() < h[j].At() }
func (h *postingsHeap) Swap(i, j int)     { (*h)[i], (*h)[j] = (*h)[j], (*h)[i] }

func (h *postingsHeap) Push(x any) {
	*h = append(*h, x.(Postings)) //nolint:forcetypeassert
}

func (h *postingsHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]

	return x
}

type mergedPostings struct {
	h           postingsHeap
	initialized bool
	cur         uint32
	err         error
}

func newMergedPostings(p []Postings) (m *mergedPostings, nonEmpty bool) {
	ph := make(postingsHeap, 0, len(p))

	for _, it := range p {
		// mergedPostings requires the caller to issue an initial Next.
		if it.Next() {
			ph = append(ph, it)
		} else if err := it.Err(); err != nil {
			return &mergedPostings{err: err}, true
		}
	}

	if len(ph) == 0 {
		return nil, false
	}

	return &mergedPostings{h: ph}, true
}

func (it *mergedPostings) Next() bool {
	if it.h.Len() == 0 || it.err != nil {
		return false
	}

	if !it.initialized {
		heap.Init(&it.h)
		it.cur = it.h[0].At()
		it.initialized = true

		return true
	}

	for {
		cur := it.h[0]
		if !cur.Next() {
			heap.Pop(&it.h)
			if err := cur.Err(); err != nil {
				it.err = err
				return false
			}
			if it.h.Len() == 0 {
				return false
			}
		} else {
			// top of heap changed
			heap.Fix(&it.h, 0)
		}

		if it.h[0].At() != it.cur {
			it.cur = it.h[0].At()
			return true
		}
	}
}

func (it *mergedPostings) Seek(id uint32) bool {
	if it.h.Len() == 0 || it.err != nil {
		return false
	}
	if !it.initialized {
		if !it.Next() {
			return false
		}
	}
	for it.cur < id {
		cur := it.h[0]
		if !cur.Seek(id) {
			heap.Pop(&it.h)
			if err := cur.Err(); err != nil {
				it.err = err
				return false
			}
			if it.h.Len() == 0 {
				return false
			}
		} else {
			heap.Fix(&it.h, 0)
		}

		it.cur = it.h[0].At()
	}

	return true
}

func (it *mergedPostings) At() uint32 {
	return it.cur
}

func (it *mergedPostings) Err() error {
	return it.err
}

// Without returns a new postings list that contains all elements from the full list that
// are not in the drop list.
func Without(full, drop Postings) Postings {
	if full == EmptyPostings() {
		return EmptyPostings()
	}
	if drop == EmptyPostings() {
		return full
	}

	return &removedPostings{full: full, remove: drop}
}

type removedPostings struct {
	full, remove Postings

	cur uint32

	initialized bool
	fok, rok    bool
}

func (rp *removedPostings) At() uint32 {
	return rp.cur
}

func (rp *removedPostings) Next() bool {
	if !rp.initialized {
		rp.fok = rp.full.Next()
		rp.rok = rp.remove.Next()
		rp.initialized = true
	}
	for {
		if !rp.fok {
			return false
		}

		if !rp.rok {
			rp.cur = rp.full.At()
			rp.fok = rp.full.Next()

			return true
		}

		fcur, rcur := rp.full.At(), rp.remove.At()
		switch {
		case fcur < rcur:
			rp.cur = fcur
			rp.fok = rp.full.Next()

			return true
		case rcur < fcur:
			rp.rok = rp.remove.Seek(fcur)
		default:
			rp.fok = rp.full.Next()
		}
	}
}

func (rp *removedPostings) Seek(id uint32) bool {
	if rp.initialized && rp.cur >= id {
		return true
	}

	rp.fok = rp.full.Seek(id)
	rp.rok = rp.remove.Seek(id)
	rp.initialized = true

	return rp.Next()
}

func (rp *removedPostings) Err() error {
	if err := rp.full.Err(); err != nil {
		return err
	}

	return rp.remove.Err()
}
