// Package errs defines the sentinel errors returned by dgap packages.
//
// Callers should compare with errors.Is, since most errors are wrapped with
// additional context on their way out of the blob and index packages.
package errs

import (
	"errors"
	"fmt"
	"io"
)

// Varint and postings decoding errors.
var (
	// ErrVarintTruncated is returned when the input ends inside a multi-byte varint.
	// It wraps io.ErrUnexpectedEOF.
	ErrVarintTruncated = fmt.Errorf("varint truncated: %w", io.ErrUnexpectedEOF)
	// ErrVarintOverflow is returned when a varint does not fit in 32 bits.
	ErrVarintOverflow = errors.New("varint overflows 32 bits")
	// ErrPostingsOverflow is returned when the running sum of decoded gaps exceeds the uint32 range.
	ErrPostingsOverflow = errors.New("postings gap sum overflows 32 bits")
	// ErrInvalidRawLength is returned when a fixed-width payload is not a multiple of 4 bytes.
	ErrInvalidRawLength = errors.New("raw postings payload length is not a multiple of 4")
	// ErrUnsortedPostings is returned when ids are appended to a delta encoder out of order.
	ErrUnsortedPostings = errors.New("postings ids must be appended in ascending order")
	// ErrTooManyIDs is returned when a list holds more ids than a blob header can count.
	ErrTooManyIDs = errors.New("too many ids in postings list")
)

// Blob errors.
var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	ErrInvalidHeaderFlags = errors.New("invalid header flags")
	ErrChecksumMismatch   = errors.New("postings blob checksum mismatch")
	ErrCountMismatch      = errors.New("decoded id count does not match header")
	ErrIDRangeMismatch    = errors.New("decoded id range does not match header")
	ErrIncompressible     = errors.New("payload is incompressible")
	ErrDecodedSizeRange   = errors.New("declared decompressed size is out of range")
)

// Index errors.
var (
	ErrInvalidTerm   = errors.New("invalid term: term must not be empty")
	ErrHashCollision = errors.New("hash collision detected")
)
