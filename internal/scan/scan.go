// Package scan implements the delimited byte reader the event producer and
// part scanner are built on: read-until-delimiter, skip-delimiter, and a
// bounded lookahead, all over a plain io.Reader.
package scan

import (
	"bytes"
	"io"

	"github.com/indigo-web/multipart/internal/unreader"
	"github.com/indigo-web/multipart/mderrors"
)

// chunkSource generalizes the teacher's tcp.Client Read/Unread pair to any
// io.Reader: pull a chunk, and give back whatever of it you didn't use.
// Reader below never accumulates bytes of its own between calls — every
// operation either consumes a chunk outright or unreads the leftover, so
// all of the reader's state lives in this one pending slot.
type chunkSource struct {
	src        io.Reader
	scratch    []byte
	un         unreader.Unreader
	pendingErr error
}

func newChunkSource(src io.Reader, bufSize int) *chunkSource {
	return &chunkSource{
		src:     src,
		scratch: make([]byte, bufSize),
	}
}

func (c *chunkSource) next() ([]byte, error) {
	return c.un.PendingOr(c.read)
}

func (c *chunkSource) unread(b []byte) {
	if len(b) == 0 {
		return
	}

	c.un.Unread(b)
}

// read fetches one chunk from the underlying source. The returned slice is
// a fresh copy, not a view into scratch: chunks are routinely combined and
// unread across multiple calls, and scratch is reused on the very next
// read, so aliasing it would corrupt whatever is still held onto.
func (c *chunkSource) read() ([]byte, error) {
	if c.pendingErr != nil {
		err := c.pendingErr
		c.pendingErr = nil
		return nil, err
	}

	for {
		n, err := c.src.Read(c.scratch)
		if n > 0 {
			if err != nil {
				c.pendingErr = err
			}

			chunk := make([]byte, n)
			copy(chunk, c.scratch[:n])
			return chunk, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

// Reader is the C2 delimited byte reader: the only way the part scanner and
// event producer touch the input stream.
type Reader struct {
	chunks  *chunkSource
	pending []byte
	total   int64
}

// New wraps src. bufSize is the size of the scratch buffer used for each
// raw read; it has no bearing on how much can be looked ahead at once.
func New(src io.Reader, bufSize int) *Reader {
	return &Reader{chunks: newChunkSource(src, bufSize)}
}

// ReadUntil reads into sink until delim is found or sink fills or input
// ends, without consuming delim itself. A return of 0 means delim or EOF is
// the very next thing in the stream.
func (r *Reader) ReadUntil(delim, sink []byte) (n int, err error) {
	for n < len(sink) {
		chunk, cerr := r.chunks.next()
		if cerr != nil {
			if cerr == io.EOF {
				return n, nil
			}

			return n, cerr
		}

		full, partial := indexDelim(chunk, delim)

		if full < 0 && partial == len(chunk) {
			more, merr := r.chunks.next()
			switch {
			case merr == nil:
				combined := make([]byte, len(chunk)+len(more))
				copy(combined, chunk)
				copy(combined[len(chunk):], more)
				r.chunks.unread(combined)
				continue
			case merr == io.EOF:
				// the ambiguous tail ran into EOF before it could complete a
				// match, so it was never the delimiter after all.
				full, partial = -1, 0
			default:
				r.chunks.unread(chunk)
				return n, merr
			}
		}

		var safe int
		if full >= 0 {
			safe = full
		} else {
			safe = len(chunk) - partial
		}

		take := safe
		if room := len(sink) - n; take > room {
			take = room
		}

		copy(sink[n:], chunk[:take])
		n += take
		r.total += int64(take)

		if rest := chunk[take:]; len(rest) > 0 {
			r.chunks.unread(rest)
		}

		// A located delimiter must stop the read right away, even with sink
		// room to spare: ReadUntil must never consume past it. Without this,
		// re-fetching the unread delimiter on the next loop turn would find
		// it at position 0 forever.
		if full >= 0 || take < safe {
			return n, nil
		}
	}

	return n, nil
}

// SkipDelim consumes exactly len(delim) bytes, failing if they don't match.
func (r *Reader) SkipDelim(delim []byte) error {
	view, err := r.LookAhead(len(delim))
	if err != nil {
		return err
	}

	matched := bytes.Equal(view, delim)
	r.Consumed(len(delim))

	if !matched {
		return mderrors.ErrUnexpectedEOF
	}

	return nil
}

// LookAhead ensures at least min bytes are buffered and returns a read-only
// view of them. The view is valid only until the next call on r; Consumed
// must be called (with n <= min) before any other method, to tell the
// reader how many of the looked-ahead bytes were actually used.
func (r *Reader) LookAhead(min int) ([]byte, error) {
	buf, err := r.chunks.next()

	for err == nil && len(buf) < min {
		var more []byte
		more, err = r.chunks.next()
		if err == nil {
			buf = append(buf, more...)
		}
	}

	if err != nil {
		r.chunks.unread(buf)

		if err == io.EOF {
			return nil, mderrors.ErrUnexpectedEOF
		}

		return nil, err
	}

	r.pending = buf
	return buf[:min], nil
}

// Consumed advances past n bytes of the most recent LookAhead result,
// unreading whatever of it wasn't used.
func (r *Reader) Consumed(n int) {
	rest := r.pending[n:]
	r.total += int64(n)
	r.pending = nil

	if len(rest) > 0 {
		r.chunks.unread(rest)
	}
}

// ReadPacket allocates and fills a buffer of exactly n bytes.
func (r *Reader) ReadPacket(n int) ([]byte, error) {
	view, err := r.LookAhead(n)
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, view)
	r.Consumed(n)

	return out, nil
}

// TotalRead returns the monotonic count of bytes consumed so far.
func (r *Reader) TotalRead() int64 {
	return r.total
}

// indexDelim looks for delim in buf. full is the index of a complete match,
// or -1. When there's no complete match, partial is the length of the
// longest suffix of buf that could still grow into delim with more bytes —
// those trailing bytes must not be treated as ordinary data yet.
func indexDelim(buf, delim []byte) (full, partial int) {
	if idx := bytes.Index(buf, delim); idx >= 0 {
		return idx, 0
	}

	maxCheck := len(delim) - 1
	if maxCheck > len(buf) {
		maxCheck = len(buf)
	}

	for l := maxCheck; l > 0; l-- {
		if bytes.Equal(buf[len(buf)-l:], delim[:l]) {
			return -1, l
		}
	}

	return -1, 0
}
