// Package memory provides reusable buffer pools for encoding paths.
package memory

import (
	"bytes"
	"sync"
)

// Default pool sizes.
const (
	// FlushBufferSize is the default size for state flush buffers (4KB).
	FlushBufferSize = 4 * 1024

	// ProofBufferSize is the default size for proof assembly buffers (64KB).
	ProofBufferSize = 64 * 1024
)

// BufferPool manages a pool of reusable byte buffers.
type BufferPool struct {
	pool        sync.Pool
	defaultSize int
}

// NewBufferPool creates a new buffer pool with the specified default size.
func NewBufferPool(defaultSize int) *BufferPool {
	if defaultSize <= 0 {
		defaultSize = FlushBufferSize
	}
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, defaultSize))
			},
		},
		defaultSize: defaultSize,
	}
}

// Get returns an empty buffer from the pool.
func (p *BufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put returns a buffer to the pool after resetting it. Buffers that
// grew far beyond the default size are dropped instead of pooled.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	if buf.Cap() <= p.defaultSize*4 {
		p.pool.Put(buf)
	}
}

// Global pools for common encoding paths.
var (
	// FlushPool holds buffers for state flush encoding.
	FlushPool = NewBufferPool(FlushBufferSize)

	// ProofPool holds buffers for proof payload assembly.
	ProofPool = NewBufferPool(ProofBufferSize)
)
