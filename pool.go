package blobsort

import "context"

// bufferPool owns a fixed set of equally sized byte buffers shared by all
// leaf sorts of one invocation. The free list is a buffered channel: a
// receive blocks while no buffer is free, and a release wakes exactly one
// waiter. At most cap(free) leases are outstanding at any instant.
type bufferPool struct {
	free chan []byte
}

func newBufferPool(bufSize int64, count int) *bufferPool {
	p := &bufferPool{
		free: make(chan []byte, count),
	}
	for i := 0; i < count; i++ {
		p.free <- make([]byte, bufSize)
	}
	return p
}

// acquire blocks until a buffer is free or ctx is done.
func (p *bufferPool) acquire(ctx context.Context) (*lease, error) {
	select {
	case buf := <-p.free:
		return &lease{pool: p, buf: buf}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// lease grants temporary exclusive access to one pool buffer. Created only
// by acquire; release returns the buffer on every exit path.
type lease struct {
	pool *bufferPool
	buf  []byte
}

// bytes returns the leased buffer truncated to n bytes.
func (l *lease) bytes(n int64) []byte {
	return l.buf[:n]
}

// release returns the leased buffer to the pool and wakes at most one
// waiter. Idempotent, so it is safe to defer and also call explicitly.
func (l *lease) release() {
	if l.buf == nil {
		return
	}
	buf := l.buf
	l.buf = nil
	l.pool.free <- buf
}
