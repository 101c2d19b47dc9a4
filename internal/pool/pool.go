package pool

import "sync"

// BufferPool is a thread-safe pool of fixed-size scratch buffers, used by
// the part scanner's copy-until-boundary loop to avoid allocating a new
// buffer on every read_until_delimiter round-trip.
//
// Unlike the teacher's ObjectPool (an unsynchronized slice-backed stack,
// correct only under single-threaded access), this pool backs onto
// sync.Pool because buffers here are borrowed concurrently: one parser
// goroutine per in-flight stream, all drawing from the same pool.
type BufferPool struct {
	pool *sync.Pool
	size int
}

// New returns a BufferPool that hands out buffers of exactly size bytes.
func New(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: &sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		},
	}
}

// Acquire borrows a buffer, sliced to its full capacity.
func (p *BufferPool) Acquire() []byte {
	buf := p.pool.Get().(*[]byte)
	return (*buf)[:p.size]
}

// Release returns a buffer to the pool. Buffers with less capacity than the
// pool's size (a caller mistakenly recycled someone else's slice) are
// dropped instead of poisoning the pool; larger ones are kept, resliced to
// the pool's size.
func (p *BufferPool) Release(buf []byte) {
	if cap(buf) < p.size {
		return
	}

	buf = buf[:p.size]
	p.pool.Put(&buf)
}
