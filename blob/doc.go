// Package blob provides high-level APIs for encoding and decoding postings blobs.
//
// A postings blob is a self-describing byte slice holding one sorted list of uint32
// ids: a fixed 24-byte header (see package section) followed by the payload. The
// payload is the list in one of two encodings, optionally compressed:
//
//   - format.TypeDelta: varint d-gaps, usually one or two bytes per id for dense lists
//   - format.TypeRaw: fixed 4-byte ids, for sparse lists or random access
//
// # Encoding Workflow
//
//	encoder, err := blob.NewPostingsEncoder(
//	    blob.WithCompression(format.CompressionZstd),
//	    blob.WithUnique(true),
//	)
//	if err != nil {
//	    return err
//	}
//
//	b, err := encoder.Encode([]uint32{42, 7, 1000})
//	if err != nil {
//	    return err
//	}
//	store(b.Bytes())
//
// # Decoding Workflow
//
//	b, err := blob.DecodePostingsBlob(data)
//	if err != nil {
//	    return err // header or checksum problem
//	}
//
//	p := b.Postings()
//	for p.Next() {
//	    fmt.Println(p.At())
//	}
//	if err := p.Err(); err != nil {
//	    return err
//	}
//
// Compression is skipped when it would not shrink the payload; the header then
// records format.CompressionNone, so readers never need to know what the writer
// asked for.
//
// # Blob Sets
//
// PostingsBlobSet groups several blobs, typically one per segment, and exposes
// their union and intersection as lazy iterators.
package blob
