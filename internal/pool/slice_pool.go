package pool

import "sync"

var uint32SlicePool = sync.Pool{
	New: func() any { return &[]uint32{} },
}

// GetUint32Slice returns a pooled uint32 slice with length zero and capacity of at least size.
//
// The caller must call the returned cleanup function once it no longer uses the slice,
// and must not retain the slice afterwards.
//
//	scratch, cleanup := pool.GetUint32Slice(len(ids))
//	defer cleanup()
//	scratch = append(scratch, ids...)
func GetUint32Slice(size int) ([]uint32, func()) {
	ptr, _ := uint32SlicePool.Get().(*[]uint32)
	slice := (*ptr)[:0]
	if cap(slice) < size {
		slice = make([]uint32, 0, size)
	}

	return slice, func() {
		*ptr = slice[:0]
		uint32SlicePool.Put(ptr)
	}
}
