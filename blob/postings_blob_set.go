package blob

import (
	"errors"
	"iter"
	"slices"

	"github.com/arloliu/dgap/encoding"
)

// PostingsBlobSet is an immutable collection of postings blobs, for example the
// per-segment lists of a single term.
//
// Blobs are ordered by their smallest id. The set is safe for concurrent reads.
type PostingsBlobSet struct {
	blobs []PostingsBlob
}

// NewPostingsBlobSet creates a set from blobs.
//
// The slice is copied and sorted by MinID; empty blobs are kept so Len reflects
// every input blob.
//
// Returns:
//   - PostingsBlobSet: The set
//   - error: If blobs is empty
func NewPostingsBlobSet(blobs []PostingsBlob) (PostingsBlobSet, error) {
	if len(blobs) == 0 {
		return PostingsBlobSet{}, errors.New("cannot create PostingsBlobSet with empty blobs")
	}

	sorted := slices.Clone(blobs)
	slices.SortStableFunc(sorted, func(a, b PostingsBlob) int {
		switch {
		case a.MinID() < b.MinID():
			return -1
		case a.MinID() > b.MinID():
			return 1
		default:
			return 0
		}
	})

	return PostingsBlobSet{blobs: sorted}, nil
}

// Len returns the number of blobs in the set.
func (s PostingsBlobSet) Len() int {
	return len(s.blobs)
}

// Blob returns the blob at index in MinID order.
func (s PostingsBlobSet) Blob(index int) (PostingsBlob, bool) {
	if index < 0 || index >= len(s.blobs) {
		return PostingsBlob{}, false
	}

	return s.blobs[index], true
}

// Count returns the total number of ids over all blobs, duplicates included.
func (s PostingsBlobSet) Count() int {
	total := 0
	for i := range s.blobs {
		total += s.blobs[i].Len()
	}

	return total
}

// Union returns an iterator over the ids present in any blob, each id once.
func (s PostingsBlobSet) Union() encoding.Postings {
	its := make([]encoding.Postings, 0, len(s.blobs))
	for i := range s.blobs {
		if s.blobs[i].IsEmpty() {
			continue
		}
		its = append(its, s.blobs[i].Postings())
	}

	return encoding.Merge(its...)
}

// Intersect returns an iterator over the ids present in every blob.
func (s PostingsBlobSet) Intersect() encoding.Postings {
	its := make([]encoding.Postings, 0, len(s.blobs))
	for i := range s.blobs {
		if s.blobs[i].IsEmpty() {
			return encoding.EmptyPostings()
		}
		its = append(its, s.blobs[i].Postings())
	}

	return encoding.Intersect(its...)
}

// All returns the distinct ids of the set in ascending order.
//
// Iteration stops silently on a decoding error; use Union and check Err when the
// error matters.
func (s PostingsBlobSet) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		p := s.Union()
		for p.Next() {
			if !yield(p.At()) {
				return
			}
		}
	}
}

// Contains reports whether any blob holds id.
func (s PostingsBlobSet) Contains(id uint32) (bool, error) {
	for i := range s.blobs {
		// blobs are sorted by MinID, nothing later can hold id
		if s.blobs[i].MinID() > id && !s.blobs[i].IsEmpty() {
			return false, nil
		}
		found, err := s.blobs[i].Contains(id)
		if err != nil || found {
			return found, err
		}
	}

	return false, nil
}
