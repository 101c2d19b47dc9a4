package part

import (
	"io"
	"sync"
)

type bodyMsg struct {
	data []byte
	err  error // set only on the terminal message, and nil there on a clean close
}

// Body is a part's payload, written by the producer and read by the
// consumer concurrently — the substream referenced throughout the core as
// Part.body. It is generalized from the teacher's internal.Pipe, but
// collapses the separate data/error channels into one: Pipe's reader
// selects between two channels that a single writer fills in sequence,
// which lets a later error overtake an earlier, still-unread chunk: a race
// this type closes by carrying the terminal error as the last message on
// the same channel the data travels on.
type Body struct {
	ch     chan bodyMsg
	closed chan struct{}
	once   sync.Once

	cur []byte
	err error
	eof bool
}

func newBody(capacity int) *Body {
	return &Body{
		ch:     make(chan bodyMsg, capacity),
		closed: make(chan struct{}),
	}
}

// write hands a chunk to the consumer, blocking until there's room or the
// body has been released. ok is false when the body was released first, in
// which case the caller should stop bothering to send (but input bytes the
// chunk came from are already consumed regardless).
func (b *Body) write(chunk []byte) (ok bool) {
	if len(chunk) == 0 {
		return true
	}

	select {
	case b.ch <- bodyMsg{data: chunk}:
		return true
	case <-b.closed:
		return false
	}
}

// finish marks the end of the body. err is nil on a clean close; any other
// value marks the body as failed, and Read will surface it after draining
// whatever data preceded it.
func (b *Body) finish(err error) {
	select {
	case b.ch <- bodyMsg{err: err}:
	case <-b.closed:
	}
}

// Read implements io.Reader.
func (b *Body) Read(p []byte) (int, error) {
	if b.eof {
		return 0, b.err
	}

	for len(b.cur) == 0 {
		msg, ok := <-b.ch
		if !ok {
			b.eof, b.err = true, io.EOF
			return 0, b.err
		}

		// data messages are never empty (write skips empty chunks), so an
		// empty message is the terminal one, clean or failed.
		if msg.err != nil || len(msg.data) == 0 {
			b.eof = true
			b.err = msg.err
			if b.err == nil {
				b.err = io.EOF
			}

			if len(msg.data) == 0 {
				return 0, b.err
			}
		}

		b.cur = msg.data
	}

	n := copy(p, b.cur)
	b.cur = b.cur[n:]
	return n, nil
}

// Release drains and closes the body. Idempotent and safe to call at any
// point in the body's lifetime, including after it has already been fully
// read: the core's release contract requires exactly that.
func (b *Body) Release() {
	b.once.Do(func() {
		close(b.closed)
	})

	for {
		select {
		case <-b.ch:
		default:
			return
		}
	}
}
