package pool

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/arloliu/hdrlog/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
	assert.Equal(t, 0, bb.Limit)
}

func TestNewBoundedByteBuffer(t *testing.T) {
	t.Run("default size clamped to limit", func(t *testing.T) {
		bb := NewBoundedByteBuffer(4096, 100)
		require.Equal(t, 100, bb.Cap())
		require.Equal(t, 100, bb.Limit)
	})

	t.Run("zero limit is unbounded", func(t *testing.T) {
		bb := NewBoundedByteBuffer(4096, 0)
		require.Equal(t, 4096, bb.Cap())
	})
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(ScratchBufferDefaultSize)
	bb.B = append(bb.B, []byte("some data")...)
	originalCap := bb.Cap()

	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_EnsureCapacity(t *testing.T) {
	t.Run("sufficient capacity is a no-op", func(t *testing.T) {
		bb := NewByteBuffer(128)
		before := &bb.B[:1][0]

		require.NoError(t, bb.EnsureCapacity(100))
		require.Equal(t, 128, bb.Cap())
		require.True(t, before == &bb.B[:1][0], "no reallocation expected")
	})

	t.Run("doubles until large enough", func(t *testing.T) {
		bb := NewByteBuffer(4096)
		require.NoError(t, bb.EnsureCapacity(4097))
		require.Equal(t, 8192, bb.Cap())

		require.NoError(t, bb.EnsureCapacity(30000))
		require.Equal(t, 32768, bb.Cap())
	})

	t.Run("preserves contents", func(t *testing.T) {
		bb := NewByteBuffer(4)
		_, _ = bb.Write([]byte("abcd"))

		require.NoError(t, bb.EnsureCapacity(1000))
		require.Equal(t, []byte("abcd"), bb.Bytes())
	})

	t.Run("limit exceeded", func(t *testing.T) {
		bb := NewBoundedByteBuffer(16, 100)
		_, _ = bb.Write([]byte("keep"))

		err := bb.EnsureCapacity(101)
		require.ErrorIs(t, err, errs.ErrOutOfMemory)
		require.Equal(t, []byte("keep"), bb.Bytes())
		require.Equal(t, 16, bb.Cap())
	})

	t.Run("growth clamps to limit", func(t *testing.T) {
		bb := NewBoundedByteBuffer(64, 100)
		require.NoError(t, bb.EnsureCapacity(65))
		require.Equal(t, 100, bb.Cap())
	})
}

func TestByteBuffer_ResizeZeroed(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("dirtydata"))

	require.NoError(t, bb.ResizeZeroed(5))
	require.Equal(t, make([]byte, 5), bb.Bytes())

	require.NoError(t, bb.ResizeZeroed(300))
	require.Equal(t, make([]byte, 300), bb.Bytes())

	require.ErrorIs(t, bb.ResizeZeroed(-1), errs.ErrInvalidArgument)
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(2)

	for range 100 {
		n, err := bb.Write([]byte("0123456789"))
		require.NoError(t, err)
		require.Equal(t, 10, n)
	}

	require.Equal(t, 1000, bb.Len())
	require.Equal(t, bytes.Repeat([]byte("0123456789"), 100), bb.Bytes())
}

func TestByteBuffer_Write_Bounded(t *testing.T) {
	bb := NewBoundedByteBuffer(8, 16)

	_, err := bb.Write([]byte("0123456789"))
	require.NoError(t, err)

	n, err := bb.Write([]byte("0123456789"))
	require.ErrorIs(t, err, errs.ErrOutOfMemory)
	require.Zero(t, n)
	require.Equal(t, []byte("0123456789"), bb.Bytes())
}

func TestByteBuffer_Extend(t *testing.T) {
	bb := NewByteBuffer(8)

	require.True(t, bb.Extend(8))
	require.Equal(t, 8, bb.Len())
	require.False(t, bb.Extend(1))
}

func TestByteBuffer_SetLength(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.SetLength(4)
	require.Equal(t, 4, bb.Len())

	require.Panics(t, func() { bb.SetLength(9) })
	require.Panics(t, func() { bb.SetLength(-1) })
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write([]byte("hello"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, "hello", out.String())

	_, err = bb.WriteTo(failingWriter{})
	require.EqualError(t, err, "disk full")

	var _ io.WriterTo = bb
}

// =============================================================================
// ByteBufferPool Tests
// =============================================================================

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(256, 1024)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 256, bb.Cap())

	_, _ = bb.Write([]byte("data"))
	bb.Limit = 10
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len(), "pooled buffers are reset")
	require.Equal(t, 0, again.Limit, "pooled buffers are unbounded")

	p.Put(nil)
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NoError(t, bb.EnsureCapacity(1024))
	p.Put(bb)

	for range 10 {
		require.LessOrEqual(t, p.Get().Cap(), 64)
	}
}

func TestScratchBuffer_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				bb := GetScratchBuffer()
				if err := bb.ResizeZeroed(id * 10); err != nil {
					t.Error(err)
					return
				}
				for _, b := range bb.Bytes() {
					if b != 0 {
						t.Error("scratch buffer not zeroed")
						return
					}
				}
				PutScratchBuffer(bb)
			}
		}(i)
	}

	wg.Wait()
}
