// Package section defines the binary header of a postings blob.
//
// A postings blob is a 24-byte PostingsHeader followed by the stored payload:
//
//	offset  size  field
//	0       2     options: bit 0 big-endian, bit 1 unique, bits 4-15 magic 0xDA50
//	2       1     encoding (format.EncodingType)
//	3       1     compression (format.CompressionType)
//	4       4     id count
//	8       4     encoded payload size before compression
//	12      4     min id
//	16      4     max id
//	20      4     checksum of bytes 0-19 followed by the stored payload
//
// The options are always little-endian; the remaining fields use the byte order
// selected by bit 0.
package section
