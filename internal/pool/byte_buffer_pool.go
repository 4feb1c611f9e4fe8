package pool

import (
	"fmt"
	"io"
	"sync"

	"github.com/arloliu/hdrlog/errs"
)

const (
	ScratchBufferDefaultSize  = 1024 * 4    // 4KiB, one typical log line
	ScratchBufferMaxThreshold = 1024 * 1024 // 1MiB
)

// ByteBuffer is a growable byte container with single ownership.
//
// Capacity grows by doubling and never shrinks. When Limit is positive, any growth
// beyond Limit bytes fails with errs.ErrOutOfMemory and leaves the buffer untouched.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
	// Limit is the maximum capacity in bytes, 0 means unbounded.
	Limit int
}

// NewByteBuffer creates a new, unbounded ByteBuffer with the specified capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// NewBoundedByteBuffer creates a ByteBuffer that refuses to grow past limit bytes.
func NewBoundedByteBuffer(defaultSize, limit int) *ByteBuffer {
	if limit > 0 && defaultSize > limit {
		defaultSize = limit
	}

	bb := NewByteBuffer(defaultSize)
	bb.Limit = limit

	return bb
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// EnsureCapacity grows the buffer until its capacity is at least n bytes,
// preserving the current contents and length.
//
// The capacity doubles on every step, so repeated small growths stay amortized.
func (bb *ByteBuffer) EnsureCapacity(n int) error {
	if n <= cap(bb.B) {
		return nil
	}

	if bb.Limit > 0 && n > bb.Limit {
		return fmt.Errorf("%w: buffer needs %d bytes, limit is %d", errs.ErrOutOfMemory, n, bb.Limit)
	}

	newCap := max(cap(bb.B), 64)
	for newCap < n {
		newCap *= 2
	}
	if bb.Limit > 0 && newCap > bb.Limit {
		newCap = bb.Limit
	}

	newBuf := make([]byte, len(bb.B), newCap)
	copy(newBuf, bb.B)
	bb.B = newBuf

	return nil
}

// ResizeZeroed sets the length of the buffer to n and zero-fills all of it,
// growing the buffer if necessary.
func (bb *ByteBuffer) ResizeZeroed(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative buffer size %d", errs.ErrInvalidArgument, n)
	}

	if err := bb.EnsureCapacity(n); err != nil {
		return err
	}

	bb.B = bb.B[:n]
	clear(bb.B)

	return nil
}

// Extend extends the buffer by n bytes if there is sufficient capacity.
func (bb *ByteBuffer) Extend(n int) bool {
	curLen := len(bb.B)
	if cap(bb.B)-curLen < n {
		return false
	}

	bb.B = bb.B[:curLen+n]

	return true
}

// Write appends the contents of data to the buffer, growing it as needed.
//
// Growth past Limit returns errs.ErrOutOfMemory and writes nothing.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	if err := bb.EnsureCapacity(len(bb.B) + len(data)); err != nil {
		return 0, err
	}

	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers whose capacity grew beyond maxThreshold are dropped instead of being
// retained, so one oversized log line does not pin memory forever.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bb.Limit = 0
	bbp.pool.Put(bb)
}

var scratchPool = NewByteBufferPool(ScratchBufferDefaultSize, ScratchBufferMaxThreshold)

// GetScratchBuffer retrieves a ByteBuffer from the shared scratch pool.
func GetScratchBuffer() *ByteBuffer {
	return scratchPool.Get()
}

// PutScratchBuffer returns a ByteBuffer to the shared scratch pool.
func PutScratchBuffer(bb *ByteBuffer) {
	scratchPool.Put(bb)
}
