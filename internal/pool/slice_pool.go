package pool

import "sync"

// byteSlicePool holds the fixed-size staging chunks used while streaming counts
// through the compressor, so only one chunk is materialized per call.
var byteSlicePool = sync.Pool{
	New: func() any { return &[]byte{} },
}

// GetByteSlice retrieves a byte slice of exactly size bytes from the pool.
//
// The contents are not cleared. The caller must call the returned cleanup function
// to return the slice to the pool.
//
// Example:
//
//	chunk, cleanup := pool.GetByteSlice(512 * 8)
//	defer cleanup()
func GetByteSlice(size int) ([]byte, func()) {
	ptr, _ := byteSlicePool.Get().(*[]byte)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]byte, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { byteSlicePool.Put(ptr) }
}
