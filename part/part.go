package part

import (
	"bytes"

	"github.com/indigo-web/multipart/internal/linebuf"
	"github.com/indigo-web/multipart/internal/pool"
	"github.com/indigo-web/multipart/internal/scan"
	"github.com/indigo-web/multipart/mderrors"
)

// Part pairs a part's deferred headers with its body substream, exactly
// the shape the core's Part event carries.
type Part struct {
	Headers *HeadersFuture
	Body    *Body
}

// New opens a fresh part: an unresolved headers future and an open body
// substream, ready to be handed to the consumer before a single byte of
// either has actually been parsed.
func New(bodyCapacity int) *Part {
	return &Part{
		Headers: newHeadersFuture(),
		Body:    newBody(bodyCapacity),
	}
}

// Release cancels the headers future if still pending and drains the
// body. Safe to call at any point, including after full consumption.
func (p *Part) Release() {
	p.Headers.Cancel()
	p.Body.Release()
}

// RunHeaders parses the part's header block off r and resolves Headers
// with the result. If the consumer already released the part, the future
// resolves to mderrors.ErrCancelled instead, per the core's cancellation
// contract: a released part must not stall the producer.
//
// The returned error is non-nil only for a genuine parse failure (the
// input is malformed or ends early); a consumer-triggered cancellation is
// not an error here, it is reported through the future instead.
func (p *Part) RunHeaders(r *scan.Reader, maxLineSize int) error {
	headers, err := linebuf.ParseHeaders(r, maxLineSize)
	if err != nil {
		p.Headers.resolve(nil, err)
		return err
	}

	if p.Headers.IsCancelled() {
		p.Headers.resolve(nil, mderrors.ErrCancelled)
		return nil
	}

	p.Headers.resolve(headers, nil)
	return nil
}

// RunBody implements parse-part-body: copies the part's payload from r
// into Body, either for exactly headers' Content-Length bytes or up to the
// next boundary token, enforcing limit. It always closes Body, with the
// error (if any) as the terminal message.
func (p *Part) RunBody(r *scan.Reader, boundary []byte, headers *linebuf.Headers, limit int64, bufs *pool.BufferPool) (int64, error) {
	n, err := copyBody(r, boundary, headers, limit, bufs, p.Body)
	p.Body.finish(err)
	return n, err
}

func copyBody(r *scan.Reader, boundary []byte, headers *linebuf.Headers, limit int64, bufs *pool.BufferPool, sink *Body) (int64, error) {
	if length, ok := headers.ContentLength(); ok {
		if length > limit {
			return 0, mderrors.ErrLimitExceeded
		}

		return copyExact(r, length, sink)
	}

	return copyUntilBoundary(r, boundary, limit, bufs, sink)
}

func copyExact(r *scan.Reader, length int64, sink *Body) (int64, error) {
	var copied int64

	for copied < length {
		chunkLen := length - copied
		const maxChunk = 64 * 1024
		if chunkLen > maxChunk {
			chunkLen = maxChunk
		}

		chunk, err := r.ReadPacket(int(chunkLen))
		if err != nil {
			return copied, err
		}

		sink.write(chunk)
		copied += int64(len(chunk))
	}

	return copied, nil
}

// copyUntilBoundary implements the core's copy-until-boundary: borrow a
// scratch buffer, repeatedly read-until-delimiter into it, and forward
// whatever was read to sink until the delimiter (or EOF) is reached.
func copyUntilBoundary(r *scan.Reader, boundary []byte, limit int64, bufs *pool.BufferPool, sink *Body) (int64, error) {
	buf := bufs.Acquire()
	defer bufs.Release(buf)

	var copied int64

	for {
		n, err := r.ReadUntil(boundary, buf)
		if err != nil {
			return copied, err
		}

		if n < len(buf) {
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				sink.write(chunk)

				copied += int64(n)
				if copied > limit {
					return copied, mderrors.ErrLimitExceeded
				}
			}

			// ReadUntil stops early both when the boundary is right ahead
			// and when the input simply ran out first; tell those apart by
			// peeking, without consuming, for the boundary next.
			view, err := r.LookAhead(len(boundary))
			if err != nil {
				return copied, err
			}

			matched := bytes.Equal(view, boundary)
			r.Consumed(0)

			if !matched {
				return copied, mderrors.ErrUnexpectedEOF
			}

			return copied, nil
		}

		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		sink.write(chunk)

		copied += int64(n)
		if copied > limit {
			return copied, mderrors.ErrLimitExceeded
		}
	}
}
