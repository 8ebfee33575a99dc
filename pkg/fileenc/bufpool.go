package fileenc

import (
	"sync"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
)

// chunkBufferSize is the buffer size the global pool targets: the
// protocol's default chunk size plus AEAD nonce/tag overhead.
const chunkBufferSize = constants.DefaultChunkSize + constants.AESNonceSize + constants.AESTagSize

// bufferPool pools chunk-sized byte slices so EncryptFile's per-chunk
// plaintext reads do not allocate a fresh buffer per file.
type bufferPool struct {
	pool sync.Pool
}

func newBufferPool() *bufferPool {
	return &bufferPool{
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, chunkBufferSize)
				return &buf
			},
		},
	}
}

// Get returns a buffer of at least size bytes. Requests larger than the
// pool's standard chunk size bypass the pool entirely.
func (p *bufferPool) Get(size int) []byte {
	if size > chunkBufferSize {
		return make([]byte, size)
	}
	bufPtr := p.pool.Get().(*[]byte)
	return (*bufPtr)[:size]
}

// Put zeroes buf (it may have held plaintext) and returns it to the pool
// if it matches the pool's standard chunk capacity.
func (p *bufferPool) Put(buf []byte) {
	if buf == nil || cap(buf) != chunkBufferSize {
		return
	}
	buf = buf[:cap(buf)]
	for i := range buf {
		buf[i] = 0
	}
	p.pool.Put(&buf)
}

// globalChunkPool is the default pool used by the streaming chunk helpers.
var globalChunkPool = newBufferPool()
