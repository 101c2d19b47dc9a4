package buffer

// Buffer is a growable byte segment with a size cap, used wherever the event
// producer accumulates bytes it cannot yet hand to the consumer: the
// preamble, the trailing transport-padding of a boundary line, and each part
// header line. Append returns false instead of growing past maxSize, so
// callers can turn that into their own limit error (mderrors.ErrLimitExceeded,
// ErrBoundaryLineTooLong or ErrMalformedHeaders).
type Buffer struct {
	memory  []byte
	begin   int
	maxSize int
}

func New(initialSize, maxSize int) Buffer {
	return Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data, checking whether the new amount of elements (bytes) doesn't exceed the
// limit, otherwise discarding the data and returning false.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// Preview returns current segment without moving the head.
func (b *Buffer) Preview() []byte {
	return b.memory[b.begin:]
}

// Finish completes current segment, returning its value.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:]
	b.begin = len(b.memory)

	return segment
}

// Clear just resets the pointers, so old values may be overridden by new ones.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}

// DelimitedReader is the read-until-delimiter collaborator Fill drives;
// internal/scan.Reader satisfies it.
type DelimitedReader interface {
	ReadUntil(delim, sink []byte) (n int, err error)
}

// Fill repeatedly calls r.ReadUntil(delim, scratch) and appends whatever it
// returns, until the delimiter (or EOF) is reached or capacity runs out. It
// is the accumulate-into-a-buffer loop shared by the preamble, boundary-line
// and header-line readers: each differs only in delim, scratch and the
// buffer's cap. ok is false when the cap was hit first; err is any error
// ReadUntil reported.
func (b *Buffer) Fill(r DelimitedReader, delim, scratch []byte) (ok bool, err error) {
	for {
		n, err := r.ReadUntil(delim, scratch)
		if err != nil {
			return false, err
		}

		if n > 0 && !b.Append(scratch[:n]) {
			return false, nil
		}

		if n < len(scratch) {
			return true, nil
		}
	}
}
