package part

import (
	"sync"

	"github.com/indigo-web/multipart/internal/linebuf"
)

// HeadersFuture is resolved by the producer once a part's header block has
// been fully parsed. The Part event carries it unresolved, so the consumer
// can start waiting on it the instant the event arrives, concurrently with
// the producer still reading headers off the wire.
type HeadersFuture struct {
	done        chan struct{}
	cancelled   chan struct{}
	cancelOnce  sync.Once
	resolveOnce sync.Once

	headers *linebuf.Headers
	err     error
}

func newHeadersFuture() *HeadersFuture {
	return &HeadersFuture{
		done:      make(chan struct{}),
		cancelled: make(chan struct{}),
	}
}

func (f *HeadersFuture) resolve(h *linebuf.Headers, err error) {
	f.resolveOnce.Do(func() {
		f.headers, f.err = h, err
		close(f.done)
	})
}

// Cancel is how Release marks a still-pending future as abandoned. The
// producer checks IsCancelled before resolving; if the consumer already
// walked away, it resolves to mderrors.ErrCancelled instead of real
// headers, and the producer moves on to the next part rather than stalling.
func (f *HeadersFuture) Cancel() {
	f.cancelOnce.Do(func() {
		close(f.cancelled)
	})
}

// IsCancelled reports whether Cancel has been called. The producer must
// consult it only up to the point it calls resolve; afterwards it is
// meaningless (the future is already settled).
func (f *HeadersFuture) IsCancelled() bool {
	select {
	case <-f.cancelled:
		return true
	default:
		return false
	}
}

// Wait blocks until the future resolves, returning the parsed headers or
// the error (including mderrors.ErrCancelled) it resolved with.
func (f *HeadersFuture) Wait() (*linebuf.Headers, error) {
	<-f.done
	return f.headers, f.err
}
