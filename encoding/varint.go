package encoding

import (
	"errors"
	"io"

	"github.com/arloliu/dgap/errs"
)

// MaxVarintLen32 is the maximum length of a varint-encoded uint32.
//
// 32 bits split into 7-bit groups need five bytes, and the fifth byte carries
// at most four payload bits.
const MaxVarintLen32 = 5

const (
	continuationBit = 0x80
	payloadMask     = 0x7F
	lastGroupMask   = 0x0F // payload bits allowed in the fifth byte
)

// PutUvarint32 encodes v into buf and returns the number of bytes written.
//
// Encoding format:
//   - The low 7 bits of v are emitted first
//   - Bit 7 (0x80) of every byte except the last is set to flag that more bytes follow
//   - Zero encodes as the single byte 0x00
//
// buf must have room for UvarintLen32(v) bytes; PutUvarint32 panics otherwise.
func PutUvarint32(buf []byte, v uint32) int {
	i := 0
	for {
		buf[i] = byte(v&payloadMask) | continuationBit
		v >>= 7
		i++
		if v == 0 {
			break
		}
	}
	buf[i-1] &= payloadMask

	return i
}

// AppendUvarint32 appends the varint encoding of v to dst and returns the extended slice.
func AppendUvarint32(dst []byte, v uint32) []byte {
	for v >= continuationBit {
		dst = append(dst, byte(v)|continuationBit)
		v >>= 7
	}

	return append(dst, byte(v))
}

// WriteUvarint32 encodes v to w and returns the number of bytes written.
//
// The only possible error is one returned by w.
func WriteUvarint32(w io.ByteWriter, v uint32) (int, error) {
	var tmp [MaxVarintLen32]byte
	n := PutUvarint32(tmp[:], v)
	for i := range n {
		if err := w.WriteByte(tmp[i]); err != nil {
			return i, err
		}
	}

	return n, nil
}

// UvarintLen32 returns the number of bytes needed to encode v.
func UvarintLen32(v uint32) int {
	switch {
	case v < 1<<7:
		return 1
	case v < 1<<14:
		return 2
	case v < 1<<21:
		return 3
	case v < 1<<28:
		return 4
	default:
		return 5
	}
}

// Uvarint32 decodes one varint from the start of buf.
//
// Returns:
//   - v, n, nil: a value was decoded from the first n bytes
//   - 0, 0, nil: buf is empty, the clean end of a sequence
//   - 0, 0, ErrVarintTruncated: buf ends inside a multi-byte value
//   - 0, 0, ErrVarintOverflow: the value needs more than 32 bits
func Uvarint32(buf []byte) (uint32, int, error) {
	if len(buf) == 0 {
		return 0, 0, nil
	}

	b := buf[0]
	if b < continuationBit {
		return uint32(b), 1, nil
	}

	v := uint32(b & payloadMask)
	var shift uint = 7
	for i := 1; i < MaxVarintLen32; i++ {
		if i >= len(buf) {
			return 0, 0, errs.ErrVarintTruncated
		}
		b = buf[i]
		if i == MaxVarintLen32-1 {
			if b&continuationBit != 0 || b > lastGroupMask {
				return 0, 0, errs.ErrVarintOverflow
			}

			return v | uint32(b)<<shift, i + 1, nil
		}
		if b < continuationBit {
			return v | uint32(b)<<shift, i + 1, nil
		}
		v |= uint32(b&payloadMask) << shift
		shift += 7
	}

	// unreachable: the fifth byte always returns above
	return 0, 0, errs.ErrVarintOverflow
}

// ReadUvarint32 reads one varint from r.
//
// ok is false with a nil error when r is exhausted before the first byte, which
// signals the normal end of a sequence of values. Running out of bytes after a
// continuation bit returns ErrVarintTruncated; a fifth byte that still flags
// continuation, or carries bits beyond 32, returns ErrVarintOverflow. Any other
// error from r is returned as is.
func ReadUvarint32(r io.ByteReader) (v uint32, ok bool, err error) {
	b, err := r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}

		return 0, false, err
	}

	if b < continuationBit {
		return uint32(b), true, nil
	}

	v = uint32(b & payloadMask)
	var shift uint = 7
	for i := 1; i < MaxVarintLen32; i++ {
		b, err = r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, false, errs.ErrVarintTruncated
			}

			return 0, false, err
		}
		if i == MaxVarintLen32-1 {
			if b&continuationBit != 0 || b > lastGroupMask {
				return 0, false, errs.ErrVarintOverflow
			}

			return v | uint32(b)<<shift, true, nil
		}
		if b < continuationBit {
			return v | uint32(b)<<shift, true, nil
		}
		v |= uint32(b&payloadMask) << shift
		shift += 7
	}

	return 0, false, errs.ErrVarintOverflow
}

// CountUvarints returns the number of complete varints in buf.
//
// Every varint ends with exactly one byte whose continuation bit is clear, so the
// count is exact for well-formed input and is used to size decode buffers.
func CountUvarints(buf []byte) int {
	n := 0
	for _, b := range buf {
		if b < continuationBit {
			n++
		}
	}

	return n
}
