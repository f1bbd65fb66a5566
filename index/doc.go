// Package index provides an in-memory inverted index over compressed postings lists.
//
// Index maps terms to blob.PostingsBlob values and answers conjunctive,
// disjunctive and prefix queries by walking the encoded lists with the iterators
// of package encoding:
//
//	idx, err := index.New(index.WithCompression(format.CompressionS2))
//	if err != nil {
//	    return err
//	}
//	_ = idx.Add("cat", 2, 4, 6, 8)
//	_ = idx.Add("dog", 6, 8, 10, 12)
//
//	ids, err := idx.Intersect("cat", "dog") // [6 8]
//
// Prefix queries go through a vellum FST of the term dictionary, rebuilt on the
// first prefix query after a write.
//
// Table layers multi-column rows on an Index: every (column, value) pair is a
// term whose list holds 32-bit cell keys, so queries such as "documents with gg
// in col0 and zz in col5" become list intersections.
//
// Logging (zap) and metrics (Prometheus) are opt-in through WithLogger and
// WithMetrics.
package index
