// Package encoding implements the varint and postings list codecs used by dgap.
//
// # Varints
//
// A uint32 is written as one to five bytes. Each byte carries 7 payload bits,
// lowest group first; bit 7 is set on every byte except the last:
//
//	0          -> 00
//	127        -> 7F
//	128        -> 80 01
//	16384      -> 80 80 01
//	0xFFFFFFFF -> FF FF FF FF 0F
//
// AppendUvarint32 and PutUvarint32 write into byte slices, WriteUvarint32 writes to
// an io.ByteWriter. Uvarint32 and ReadUvarint32 are the matching readers. Readers
// distinguish three outcomes: a value, a clean end of input (no bytes left before
// a value starts) and an error. A value cut off after a continuation byte returns
// errs.ErrVarintTruncated, which wraps io.ErrUnexpectedEOF. A value that does not
// fit in 32 bits returns errs.ErrVarintOverflow.
//
// # Postings lists
//
// A postings list is a list of uint32 document ids. DeltaListCodec (and the
// EncodeList and DecodeList shortcuts) sort the ids, replace each id with its gap
// from the previous one and write the gaps as varints:
//
//	ids    {8, 2, 6, 4}
//	sorted {2, 4, 6, 8}
//	gaps   {2, 2, 2, 2}
//	bytes  02 02 02 02
//
// The buffer has no header or length prefix; the end of input ends the list.
// Duplicates are preserved as zero gaps; call Unique first for set semantics.
//
// Decoders reject a buffer whose gaps sum past 0xFFFFFFFF with errs.ErrPostingsOverflow:
//
//	FF FF FF FF 0F 01 -> {4294967295, overflow}
//
// DecodeList returns no partial list on any error, and NewDeltaPostings stops and
// reports the same errors through Err.
//
// RawListCodec stores the same sorted list with 4 bytes per id. It is the baseline
// the delta encoding is compared against, and the only codec with random access.
//
// # Iterators
//
// Postings is a lazy ascending iterator in the Next/Seek/At/Err style.
// NewDeltaPostings walks an encoded buffer without materializing it, and
// Intersect, Merge and Without combine iterators:
//
//	p := encoding.Intersect(
//	    encoding.NewDeltaPostings(a),
//	    encoding.NewDeltaPostings(b),
//	)
//	ids, err := encoding.ExpandPostings(p)
//
// All codecs and functions in this package are safe for concurrent use. A single
// Postings iterator or DeltaEncoder is not.
package encoding
