package config

type (
	Preamble struct {
		// MaxSize is the hard cap on preamble bytes collected before the first
		// boundary is found. Exceeding it fails with mderrors.ErrLimitExceeded.
		MaxSize int
	}

	BoundaryLine struct {
		// ScratchSize bounds the buffer used to consume trailing transport-padding
		// after a boundary token, up to the terminating CRLF. Filling it without
		// finding CRLF fails with mderrors.ErrBoundaryLineTooLong.
		ScratchSize int
	}

	Epilogue struct {
		// MaxSize is the hard cap on epilogue bytes, enforced only when the total
		// content length is known.
		MaxSize int64
	}

	PartBody struct {
		// DefaultLimit caps the body of every part in the stream, whether it is
		// sized by Content-Length or delimited by the next boundary; there is no
		// separate per-part override. Set to math.MaxInt64 to effectively
		// disable it.
		DefaultLimit int64
	}

	PartHeaders struct {
		// MaxLineSize bounds a single header line. Exceeding it without finding
		// CRLF fails with mderrors.ErrMalformedHeaders.
		MaxLineSize int
	}

	Queue struct {
		// Capacity is the buffer size of the top-level event channel. The
		// default of 1 lets the producer prepare the next event while the
		// consumer is still processing the previous one, without letting the
		// producer run arbitrarily far ahead.
		Capacity int
		// BodyCapacity is the buffer size of each part's body substream.
		BodyCapacity int
	}

	ScratchBuffer struct {
		// Size is the size of buffers borrowed from the pool during
		// copy-until-boundary. Bigger buffers mean fewer read-until-delimiter
		// round-trips at the cost of more memory per in-flight part.
		Size int
	}
)

// Config holds the tunables of the parser: limits, preallocations and the
// backpressure capacities of the event and body channels.
//
// Always start from Default() and override individual fields; assembling a
// Config from scratch risks leaving a limit at its zero value, which either
// rejects every non-empty part body (PartBody.DefaultLimit) or stalls reading
// the input altogether (ScratchBuffer.Size).
type Config struct {
	Preamble      Preamble
	BoundaryLine  BoundaryLine
	Epilogue      Epilogue
	PartBody      PartBody
	PartHeaders   PartHeaders
	Queue         Queue
	ScratchBuffer ScratchBuffer
}

// Default returns the limits documented by the package: an 8192-byte
// preamble and boundary-line scratch, a 2^31-1 epilogue cap, an unbounded
// per-part body, and a queue depth of 1.
func Default() *Config {
	return &Config{
		Preamble: Preamble{
			MaxSize: 8192,
		},
		BoundaryLine: BoundaryLine{
			ScratchSize: 8192,
		},
		Epilogue: Epilogue{
			MaxSize: (1 << 31) - 1,
		},
		PartBody: PartBody{
			DefaultLimit: (1 << 63) - 1,
		},
		PartHeaders: PartHeaders{
			MaxLineSize: 8192,
		},
		Queue: Queue{
			Capacity:     1,
			BodyCapacity: 4,
		},
		ScratchBuffer: ScratchBuffer{
			Size: 4 * 1024,
		},
	}
}
