// Package hash derives dictionary keys for terms and table cells, and blob checksums.
package hash

import (
	"hash/fnv"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given term. It is the index dictionary key.
func ID(term string) uint64 {
	return xxhash.Sum64String(term)
}

// ID32 computes the 32-bit FNV-1a hash of data.
//
// 32-bit keys fit in a postings list, so table cells store ID32 values as their ids.
func ID32(data string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(data))

	return h.Sum32()
}

// BlobChecksum returns the low 32 bits of the xxHash64 of header followed by payload.
//
// header is the blob header without its checksum field, so a modified count,
// size or id range fails verification the same way a modified payload does.
func BlobChecksum(header, payload []byte) uint32 {
	d := xxhash.New()
	_, _ = d.Write(header)
	_, _ = d.Write(payload)

	return uint32(d.Sum64()) //nolint:gosec
}
