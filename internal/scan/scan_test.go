package scan

import (
	"io"
	"strings"
	"testing"

	"github.com/indigo-web/multipart/mderrors"
	"github.com/stretchr/testify/require"
)

// chunker forces a reader through short, caller-controlled reads, so tests
// exercise delimiter matches split across reads rather than only the
// single-read happy path.
type chunker struct {
	chunks [][]byte
}

func (c *chunker) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}

	chunk := c.chunks[0]
	n := copy(p, chunk)
	if n == len(chunk) {
		c.chunks = c.chunks[1:]
	} else {
		c.chunks[0] = chunk[n:]
	}

	return n, nil
}

func byteChunks(s string) [][]byte {
	out := make([][]byte, len(s))
	for i := range s {
		out[i] = []byte{s[i]}
	}

	return out
}

func TestReadUntil_SingleRead(t *testing.T) {
	r := New(strings.NewReader("hello--boundaryrest"), 64)

	sink := make([]byte, 64)
	n, err := r.ReadUntil([]byte("--boundary"), sink)
	require.NoError(t, err)
	require.Equal(t, "hello", string(sink[:n]))
}

func TestReadUntil_DelimiterSplitAcrossReads(t *testing.T) {
	r := New(&chunker{chunks: byteChunks("hello--boundaryrest")}, 64)

	sink := make([]byte, 64)
	n, err := r.ReadUntil([]byte("--boundary"), sink)
	require.NoError(t, err)
	require.Equal(t, "hello", string(sink[:n]))

	// the delimiter itself, and everything past it, must still be there.
	rest, err := r.ReadPacket(14)
	require.NoError(t, err)
	require.Equal(t, "--boundaryrest", string(rest))
}

func TestReadUntil_DelimiterImmediatelyNext(t *testing.T) {
	r := New(strings.NewReader("--boundary"), 64)

	sink := make([]byte, 64)
	n, err := r.ReadUntil([]byte("--boundary"), sink)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReadUntil_NearMatchIsNotConsumed(t *testing.T) {
	// "--bound" looks like a prefix of the delimiter but never completes it.
	r := New(strings.NewReader("x--boundy"), 64)

	sink := make([]byte, 64)
	n, err := r.ReadUntil([]byte("--boundary"), sink)
	require.NoError(t, err)
	require.Equal(t, "x--boundy", string(sink[:n]))
}

func TestReadUntil_StopsAtEOFWithoutDelimiter(t *testing.T) {
	r := New(strings.NewReader("no delimiter here"), 64)

	sink := make([]byte, 64)
	n, err := r.ReadUntil([]byte("--boundary"), sink)
	require.NoError(t, err)
	require.Equal(t, "no delimiter here", string(sink[:n]))
}

func TestReadUntil_SinkSmallerThanData(t *testing.T) {
	r := New(strings.NewReader("abcdef--boundary"), 64)

	sink := make([]byte, 3)
	n, err := r.ReadUntil([]byte("--boundary"), sink)
	require.NoError(t, err)
	require.Equal(t, "abc", string(sink[:n]))

	sink2 := make([]byte, 64)
	n2, err := r.ReadUntil([]byte("--boundary"), sink2)
	require.NoError(t, err)
	require.Equal(t, "def", string(sink2[:n2]))
}

func TestSkipDelim(t *testing.T) {
	r := New(strings.NewReader("\r\ntrailing"), 64)

	require.NoError(t, r.SkipDelim([]byte("\r\n")))

	rest, err := r.ReadPacket(8)
	require.NoError(t, err)
	require.Equal(t, "trailing", string(rest[:8]))
}

func TestSkipDelim_Mismatch(t *testing.T) {
	r := New(strings.NewReader("xx"), 64)

	err := r.SkipDelim([]byte("\r\n"))
	require.ErrorIs(t, err, mderrors.ErrUnexpectedEOF)
}

func TestLookAhead_SpansMultipleReads(t *testing.T) {
	r := New(&chunker{chunks: byteChunks("abcdef")}, 64)

	view, err := r.LookAhead(4)
	require.NoError(t, err)
	require.Equal(t, "abcd", string(view))

	r.Consumed(2)

	rest, err := r.ReadPacket(4)
	require.NoError(t, err)
	require.Equal(t, "cdef", string(rest))
}

func TestLookAhead_UnexpectedEOF(t *testing.T) {
	r := New(strings.NewReader("ab"), 64)

	_, err := r.LookAhead(4)
	require.Error(t, err)
}

func TestTotalRead(t *testing.T) {
	r := New(strings.NewReader("abcdef"), 64)

	_, err := r.ReadPacket(3)
	require.NoError(t, err)
	require.EqualValues(t, 3, r.TotalRead())

	sink := make([]byte, 64)
	n, err := r.ReadUntil([]byte("zz"), sink)
	require.NoError(t, err)
	require.EqualValues(t, 6, r.TotalRead())
	require.Equal(t, "def", string(sink[:n]))
}

func TestIndexDelim(t *testing.T) {
	full, partial := indexDelim([]byte("hello--boundary"), []byte("--boundary"))
	require.Equal(t, 5, full)
	require.Zero(t, partial)

	full, partial = indexDelim([]byte("hello--boun"), []byte("--boundary"))
	require.Equal(t, -1, full)
	require.Equal(t, len("--boun"), partial)

	full, partial = indexDelim([]byte("hello world"), []byte("--boundary"))
	require.Equal(t, -1, full)
	require.Zero(t, partial)
}
