package multipart

import (
	"iter"
	"sync"
)

type eventOrErr struct {
	event Event
	err   error
}

// EventStream is the lazy, one-shot sequence of Event values the event
// producer writes into. It is the bounded output queue of §5: capacity is
// config.Queue.Capacity, and send blocks while the queue is full, until the
// consumer calls Next (or Close cancels the parser).
type EventStream struct {
	events    chan eventOrErr
	done      chan struct{}
	closeOnce sync.Once
	err       error
}

func newEventStream(capacity int) *EventStream {
	return &EventStream{
		events: make(chan eventOrErr, capacity),
		done:   make(chan struct{}),
	}
}

// Next blocks for the next event. ok is false once the stream is
// exhausted or has failed; Err reports the failure, if any, once ok is
// false.
func (s *EventStream) Next() (Event, bool) {
	item, ok := <-s.events
	if !ok {
		return Event{}, false
	}

	if item.err != nil {
		s.err = item.err
		return Event{}, false
	}

	return item.event, true
}

// Err returns the error the stream ended with, or nil on a clean end.
// Meaningful only after Next has returned ok == false.
func (s *EventStream) Err() error {
	return s.err
}

// All is an iter.Seq convenience over Next, stopping (without setting Err)
// if the caller breaks out early.
func (s *EventStream) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := s.Next()
			if !ok {
				return
			}

			if !yield(ev) {
				return
			}
		}
	}
}

// Close cancels the parser: the producer's next attempt to emit an event
// fails and parsing stops with mderrors.ErrCancelled. A part whose body is
// already being written when Close is called is not interrupted: its body is
// written to the end (or until the part is released) before that next
// attempt is made.
func (s *EventStream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// send delivers an event to the consumer, blocking until there's room or
// the stream is closed. ok is false in the latter case.
func (s *EventStream) send(ev Event) (ok bool) {
	select {
	case s.events <- eventOrErr{event: ev}:
		return true
	case <-s.done:
		return false
	}
}

// fail delivers the terminal error and closes the channel.
func (s *EventStream) fail(err error) {
	select {
	case s.events <- eventOrErr{err: err}:
	case <-s.done:
	}

	close(s.events)
}

// finish closes the channel on a clean end.
func (s *EventStream) finish() {
	close(s.events)
}
