package proxy

import (
	"sync"
)

// relayBufferSize is the chunk size used to copy origin bytes to the client.
const relayBufferSize = 8 << 10

type bufferPool struct {
	pool sync.Pool
}

func newBufferPool(size int) *bufferPool {
	bp := &bufferPool{}
	bp.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}

	return bp
}

// Get returns a pointer so Put can hand it back without allocating.
func (p *bufferPool) Get() *[]byte {
	return p.pool.Get().(*[]byte)
}

func (p *bufferPool) Put(b *[]byte) {
	p.pool.Put(b)
}
