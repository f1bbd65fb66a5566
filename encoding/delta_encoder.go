package encoding

import (
	"github.com/arloliu/dgap/errs"
	"github.com/arloliu/dgap/internal/pool"
)

// DeltaEncoder builds a d-gap buffer incrementally from ids that arrive in ascending order.
//
// It produces the same bytes as EncodeList over the same ids, without holding the
// decoded list in memory. This is the shape of a merge: ids come out of a Postings
// iterator one at a time and go straight into the encoder.
//
//	enc := encoding.NewDeltaEncoder()
//	defer enc.Finish()
//
//	for p.Next() {
//	    if err := enc.Write(p.At()); err != nil {
//	        return err
//	    }
//	}
//	data := slices.Clone(enc.Bytes())
type DeltaEncoder struct {
	buf   *pool.ByteBuffer
	last  uint32
	count int
}

// NewDeltaEncoder creates a new encoder backed by a pooled buffer.
func NewDeltaEncoder() *DeltaEncoder {
	return &DeltaEncoder{
		buf: pool.GetPostingsBuffer(),
	}
}

// Write appends id.
//
// id must not be smaller than the previously written id; equal ids are kept.
//
// Panics if Finish() has been called (nil buffer).
func (e *DeltaEncoder) Write(id uint32) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if e.count > 0 && id < e.last {
		return errs.ErrUnsortedPostings
	}

	e.buf.Grow(MaxVarintLen32)
	e.buf.B = AppendUvarint32(e.buf.B, id-e.last)
	e.last = id
	e.count++

	return nil
}

// WriteSlice appends ascending ids. It stops at the first out-of-order id.
func (e *DeltaEncoder) WriteSlice(ids []uint32) error {
	for _, id := range ids {
		if err := e.Write(id); err != nil {
			return err
		}
	}

	return nil
}

// Bytes returns the encoded buffer.
//
// The returned slice aliases pooled memory and is only valid until Finish; clone it
// to keep it.
func (e *DeltaEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of ids written.
func (e *DeltaEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *DeltaEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Last returns the most recently written id, or 0 if nothing was written.
func (e *DeltaEncoder) Last() uint32 {
	return e.last
}

// Reset discards the written ids but keeps the buffer for reuse.
func (e *DeltaEncoder) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
	e.last = 0
	e.count = 0
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *DeltaEncoder) Finish() {
	if e.buf != nil {
		pool.PutPostingsBuffer(e.buf)
		e.buf = nil
	}
	e.last = 0
	e.count = 0
}
