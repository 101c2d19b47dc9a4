package multipart

import (
	"github.com/indigo-web/multipart/boundary"
	"github.com/indigo-web/multipart/config"
	"github.com/indigo-web/multipart/internal/buffer"
	"github.com/indigo-web/multipart/internal/linebuf"
	"github.com/indigo-web/multipart/internal/pool"
	"github.com/indigo-web/multipart/internal/scan"
	"github.com/indigo-web/multipart/mderrors"
	"github.com/indigo-web/multipart/part"
)

var crlf = []byte("\r\n")

// UnknownLength signals that the caller does not know the multipart body's
// total length; the producer then never emits an Epilogue event, per the
// documented limitation (see the design notes on epilogue-only-when-known).
const UnknownLength int64 = -1

// producer is the event producer (C4): the top-level state machine that
// owns the input stream and drives C1-C3, one logical task with no
// internal concurrency.
type producer struct {
	cfg         *config.Config
	r           *scan.Reader
	boundary    boundary.Token
	bufs        *pool.BufferPool
	stream      *EventStream
	totalLength int64
}

func newProducer(tok boundary.Token, r *scan.Reader, totalLength int64, cfg *config.Config) *producer {
	return &producer{
		cfg:         cfg,
		r:           r,
		boundary:    tok,
		bufs:        pool.New(cfg.ScratchBuffer.Size),
		stream:      newEventStream(cfg.Queue.Capacity),
		totalLength: totalLength,
	}
}

// run drives the whole parse to completion, reporting the outcome through
// p.stream. It is meant to run as its own goroutine: the consumer and the
// producer are independent logical tasks exchanging only events and body
// bytes.
func (p *producer) run() {
	if err := p.drive(); err != nil {
		p.stream.fail(err)
		return
	}

	p.stream.finish()
}

func (p *producer) drive() error {
	if err := p.preamble(); err != nil {
		return err
	}

	closing, err := checkBoundary(p.r, p.boundary.First())
	if err != nil {
		return err
	}

	for !closing {
		if err := p.betweenParts(); err != nil {
			return err
		}

		if err := p.part(); err != nil {
			return err
		}

		closing, err = checkBoundary(p.r, p.boundary.Full())
		if err != nil {
			return err
		}
	}

	return p.epilogue()
}

// preamble reads everything before the first boundary token, emitting it
// as a Preamble event if non-empty.
func (p *producer) preamble() error {
	buf := buffer.New(256, p.cfg.Preamble.MaxSize)
	scratch := make([]byte, 512)

	if ok, err := buf.Fill(p.r, p.boundary.First(), scratch); err != nil {
		return err
	} else if !ok {
		return mderrors.ErrLimitExceeded
	}

	preamble := buf.Finish()
	if len(preamble) == 0 {
		return nil
	}

	out := make([]byte, len(preamble))
	copy(out, preamble)

	if !p.stream.send(Event{Kind: KindPreamble, Preamble: out}) {
		return mderrors.ErrCancelled
	}

	return nil
}

// betweenParts consumes a boundary line's trailing transport-padding up to
// and including its terminating CRLF.
func (p *producer) betweenParts() error {
	line := buffer.New(64, p.cfg.BoundaryLine.ScratchSize)
	scratch := make([]byte, 256)

	if ok, err := line.Fill(p.r, crlf, scratch); err != nil {
		return err
	} else if !ok {
		return mderrors.ErrBoundaryLineTooLong
	}

	return p.r.SkipDelim(crlf)
}

// part implements InPart: open a fresh part, publish it before its
// headers are parsed (so the consumer can start waiting on them
// concurrently), then parse headers and body in turn.
func (p *producer) part() error {
	prt := part.New(p.cfg.Queue.BodyCapacity)

	if !p.stream.send(Event{Kind: KindPart, Part: prt}) {
		prt.Release()
		return mderrors.ErrCancelled
	}

	if err := prt.RunHeaders(p.r, p.cfg.PartHeaders.MaxLineSize); err != nil {
		prt.Body.finish(err)
		return err
	}

	headers, _ := prt.Headers.Wait()
	if headers == nil {
		// the consumer released the part before headers resolved; still
		// have to read the body off the wire to keep the stream position
		// correct, there's just nobody left to hand it to.
		headers = linebuf.New()
	}

	_, err := prt.RunBody(p.r, p.boundary.Full(), headers, p.cfg.PartBody.DefaultLimit, p.bufs)
	return err
}

// epilogue reads the bytes following the closing boundary, when the total
// body length is known.
func (p *producer) epilogue() error {
	if p.totalLength < 0 {
		return nil
	}

	remaining := p.totalLength - p.r.TotalRead()
	if remaining > p.cfg.Epilogue.MaxSize {
		return mderrors.ErrLimitExceeded
	}

	if remaining <= 0 {
		return nil
	}

	data, err := p.r.ReadPacket(int(remaining))
	if err != nil {
		return err
	}

	if !p.stream.send(Event{Kind: KindEpilogue, Epilogue: data}) {
		return mderrors.ErrCancelled
	}

	return nil
}
