package index

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/dgap/blob"
	"github.com/arloliu/dgap/encoding"
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/internal/collision"
	"github.com/arloliu/dgap/internal/hash"
	"github.com/arloliu/dgap/internal/options"
)

// Index is an in-memory inverted index mapping terms to compressed postings lists.
//
// Every list is stored as a blob.PostingsBlob with set semantics: ids are sorted
// and unique. Terms are keyed by their xxHash64; a second term with the same hash
// is rejected with errs.ErrHashCollision.
//
// Index is safe for concurrent use. Queries run on the encoded lists and never
// expand more than one id per list at a time.
type Index struct {
	mu      sync.RWMutex
	lists   map[uint64]blob.PostingsBlob
	terms   *collision.Tracker[uint64, string]
	size    int
	dict    *dictionary
	encoder *blob.PostingsEncoder

	logger            *zap.Logger
	metrics           *metrics
	decodeConcurrency int
}

// New creates an empty index.
//
// Parameters:
//   - opts: Optional configuration (encoding, compression, logger, metrics, decode concurrency)
//
// Returns:
//   - *Index: The index
//   - error: If an option is invalid or metric registration fails
func New(opts ...Option) (*Index, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	encoder, err := blob.NewPostingsEncoder(
		blob.WithEncoding(cfg.encoding),
		blob.WithCompression(cfg.compression),
		blob.WithUnique(true),
	)
	if err != nil {
		return nil, err
	}

	m, err := newMetrics(cfg.registerer)
	if err != nil {
		return nil, err
	}

	return &Index{
		lists:             make(map[uint64]blob.PostingsBlob),
		terms:             collision.NewTracker[uint64, string](),
		dict:              newDictionary(),
		encoder:           encoder,
		logger:            cfg.logger,
		metrics:           m,
		decodeConcurrency: cfg.decodeConcurrency,
	}, nil
}

// Add merges ids into the postings list of term, creating the term if needed.
//
// Duplicate ids, within ids or with the stored list, are kept once.
func (idx *Index) Add(term string, ids ...uint32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key, err := idx.trackLocked(term)
	if err != nil {
		return err
	}

	merged := ids
	if existing, ok := idx.lists[key]; ok {
		stored, err := existing.IDs()
		if err != nil {
			idx.metrics.observeDecodeError()
			idx.logger.Warn("stored postings list is corrupt", zap.String("term", term), zap.Error(err))

			return fmt.Errorf("add to term %q: %w", term, err)
		}
		merged = append(stored, ids...)
	}

	return idx.storeLocked(term, key, merged)
}

// Put replaces the postings list of term with ids.
func (idx *Index) Put(term string, ids []uint32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key, err := idx.trackLocked(term)
	if err != nil {
		return err
	}

	return idx.storeLocked(term, key, ids)
}

// Remove drops ids from the postings list of term. The term stays in the index
// even when its list becomes empty. It reports whether the term exists.
func (idx *Index) Remove(term string, ids ...uint32) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	existing, ok := idx.blobLocked(term)
	if !ok {
		return false, nil
	}

	kept, err := encoding.ExpandPostings(encoding.Without(existing.Postings(), encoding.NewListPostings(encoding.Unique(ids))))
	if err != nil {
		idx.decodeFailed(term, err)
		return true, fmt.Errorf("remove from term %q: %w", term, err)
	}

	return true, idx.storeLocked(term, hash.ID(term), kept)
}

// Delete removes term. It reports whether the term existed.
func (idx *Index) Delete(term string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := hash.ID(term)
	existing, ok := idx.lists[key]
	if !ok {
		return false
	}
	if tracked, _ := idx.terms.Lookup(key); tracked != term {
		return false
	}

	delete(idx.lists, key)
	idx.terms.Untrack(key)
	idx.size -= existing.Size()
	idx.dict.invalidate()
	idx.metrics.observeWrite(len(idx.lists), idx.size)
	idx.logger.Debug("deleted term", zap.String("term", term))

	return true
}

// Postings returns the ascending ids of term, or nil if the term is unknown.
func (idx *Index) Postings(term string) ([]uint32, error) {
	idx.metrics.observeQuery(opPostings)

	b, ok := idx.Blob(term)
	if !ok {
		return nil, nil
	}

	ids, err := b.IDs()
	if err != nil {
		idx.decodeFailed(term, err)
		return nil, err
	}

	return ids, nil
}

// Blob returns the stored blob of term.
func (idx *Index) Blob(term string) (blob.PostingsBlob, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.blobLocked(term)
}

// Has reports whether term is in the index.
func (idx *Index) Has(term string) bool {
	_, ok := idx.Blob(term)
	return ok
}

// Intersect returns the ids present in the lists of every term.
//
// An unknown term has an empty list, so it makes the result empty. No terms
// yield an empty result.
func (idx *Index) Intersect(terms ...string) ([]uint32, error) {
	idx.metrics.observeQuery(opIntersect)

	idx.mu.RLock()
	blobs, complete := idx.blobsLocked(terms)
	idx.mu.RUnlock()

	if !complete || len(blobs) == 0 {
		return nil, nil
	}

	return idx.expand(encoding.Intersect(postingsOf(blobs)...))
}

// Union returns the ids present in the list of any term. Unknown terms are skipped.
func (idx *Index) Union(terms ...string) ([]uint32, error) {
	idx.metrics.observeQuery(opUnion)

	idx.mu.RLock()
	blobs, _ := idx.blobsLocked(terms)
	idx.mu.RUnlock()

	return idx.expand(encoding.Merge(postingsOf(blobs)...))
}

// TermsWithPrefix returns the terms starting with prefix in ascending byte order.
func (idx *Index) TermsWithPrefix(prefix string) ([]string, error) {
	idx.metrics.observeQuery(opPrefix)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.dict.prefix(prefix, idx.terms.Values)
}

// IntersectPrefix returns the ids shared by every term starting with prefix.
//
// No matching term yields an empty result.
func (idx *Index) IntersectPrefix(prefix string) ([]uint32, error) {
	idx.metrics.observeQuery(opIntersectPrefix)

	idx.mu.RLock()
	terms, err := idx.dict.prefix(prefix, idx.terms.Values)
	if err != nil {
		idx.mu.RUnlock()
		return nil, err
	}
	blobs, _ := idx.blobsLocked(terms)
	idx.mu.RUnlock()

	if len(blobs) == 0 {
		return nil, nil
	}

	return idx.expand(encoding.Intersect(postingsOf(blobs)...))
}

// DecodeTerms decodes the lists of terms concurrently.
//
// Unknown terms are absent from the result. The first decoding error, or the
// context error, cancels the remaining work and is returned.
func (idx *Index) DecodeTerms(ctx context.Context, terms []string) (map[string][]uint32, error) {
	idx.metrics.observeQuery(opDecode)

	type job struct {
		term string
		blob blob.PostingsBlob
	}

	idx.mu.RLock()
	jobs := make([]job, 0, len(terms))
	for _, term := range terms {
		if b, ok := idx.blobLocked(term); ok {
			jobs = append(jobs, job{term: term, blob: b})
		}
	}
	idx.mu.RUnlock()

	results := make([][]uint32, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.decodeConcurrency)
	for i := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			ids, err := jobs[i].blob.IDs()
			if err != nil {
				idx.decodeFailed(jobs[i].term, err)
				return fmt.Errorf("decode term %q: %w", jobs[i].term, err)
			}
			results[i] = ids

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	decoded := make(map[string][]uint32, len(jobs))
	for i := range jobs {
		decoded[jobs[i].term] = results[i]
	}

	return decoded, nil
}

// Terms returns every term in ascending byte order.
func (idx *Index) Terms() []string {
	idx.mu.RLock()
	terms := idx.terms.Values()
	idx.mu.RUnlock()

	slices.Sort(terms)

	return terms
}

// Len returns the number of terms.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.lists)
}

// Size returns the total size of the stored blobs in bytes.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.size
}

func (idx *Index) trackLocked(term string) (uint64, error) {
	if term == "" {
		return 0, errs.ErrInvalidTerm
	}

	key := hash.ID(term)
	if _, err := idx.terms.Track(key, term); err != nil {
		existing, _ := idx.terms.Lookup(key)
		idx.logger.Warn("term hash collision",
			zap.String("term", term),
			zap.String("existing", existing),
			zap.Uint64("key", key),
		)

		return 0, fmt.Errorf("term %q: %w", term, err)
	}

	return key, nil
}

func (idx *Index) storeLocked(term string, key uint64, ids []uint32) error {
	b, err := idx.encoder.Encode(ids)
	if err != nil {
		if _, ok := idx.lists[key]; !ok {
			idx.terms.Untrack(key)
		}

		return fmt.Errorf("encode term %q: %w", term, err)
	}

	if old, ok := idx.lists[key]; ok {
		idx.size -= old.Size()
	} else {
		idx.dict.invalidate()
	}
	idx.lists[key] = b
	idx.size += b.Size()

	idx.metrics.observeWrite(len(idx.lists), idx.size)
	idx.logger.Debug("stored postings list",
		zap.String("term", term),
		zap.Int("ids", b.Len()),
		zap.Int("bytes", b.Size()),
	)

	return nil
}

func (idx *Index) blobLocked(term string) (blob.PostingsBlob, bool) {
	key := hash.ID(term)
	if tracked, ok := idx.terms.Lookup(key); !ok || tracked != term {
		return blob.PostingsBlob{}, false
	}
	b, ok := idx.lists[key]

	return b, ok
}

// blobsLocked collects the blobs of terms; complete is false when a term is unknown.
func (idx *Index) blobsLocked(terms []string) (blobs []blob.PostingsBlob, complete bool) {
	blobs = make([]blob.PostingsBlob, 0, len(terms))
	complete = true
	for _, term := range terms {
		b, ok := idx.blobLocked(term)
		if !ok {
			complete = false
			continue
		}
		blobs = append(blobs, b)
	}

	return blobs, complete
}

func (idx *Index) expand(p encoding.Postings) ([]uint32, error) {
	ids, err := encoding.ExpandPostings(p)
	if err != nil {
		idx.decodeFailed("", err)
		return nil, err
	}

	return ids, nil
}

func (idx *Index) decodeFailed(term string, err error) {
	idx.metrics.observeDecodeError()
	idx.logger.Warn("failed to decode postings list", zap.String("term", term), zap.Error(err))
}

func postingsOf(blobs []blob.PostingsBlob) []encoding.Postings {
	its := make([]encoding.Postings, len(blobs))
	for i := range blobs {
		its[i] = blobs[i].Postings()
	}

	return its
}
