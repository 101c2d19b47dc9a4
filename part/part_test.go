package part

import (
	"io"
	"strings"
	"testing"

	"github.com/indigo-web/multipart/internal/linebuf"
	"github.com/indigo-web/multipart/internal/pool"
	"github.com/indigo-web/multipart/internal/scan"
	"github.com/indigo-web/multipart/mderrors"
	"github.com/stretchr/testify/require"
)

func TestPart_RunBody_ContentLength(t *testing.T) {
	r := scan.New(strings.NewReader("hello--B"), 64)
	headers := linebuf.New()
	headers.Add("Content-Length", "5")

	p := New(4)
	bufs := pool.New(32)

	go func() {
		_, _ = p.RunBody(r, []byte("--B"), headers, 1<<20, bufs)
	}()

	body, err := io.ReadAll(p.Body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}

func TestPart_RunBody_UntilBoundary(t *testing.T) {
	r := scan.New(strings.NewReader("hello--B"), 64)
	headers := linebuf.New()

	p := New(4)
	bufs := pool.New(32)

	go func() {
		_, _ = p.RunBody(r, []byte("--B"), headers, 1<<20, bufs)
	}()

	body, err := io.ReadAll(p.Body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}

func TestPart_RunBody_LimitExceeded(t *testing.T) {
	r := scan.New(strings.NewReader(strings.Repeat("x", 100)+"--B"), 64)
	headers := linebuf.New()

	p := New(4)
	bufs := pool.New(16)

	errc := make(chan error, 1)
	go func() {
		_, err := p.RunBody(r, []byte("--B"), headers, 10, bufs)
		errc <- err
	}()

	_, readErr := io.ReadAll(p.Body)
	require.ErrorIs(t, readErr, mderrors.ErrLimitExceeded)
	require.ErrorIs(t, <-errc, mderrors.ErrLimitExceeded)
}

func TestPart_Release_DoesNotStallProducer(t *testing.T) {
	r := scan.New(strings.NewReader(strings.Repeat("x", 1000)+"--B"), 64)
	headers := linebuf.New()

	p := New(1)
	bufs := pool.New(16)
	p.Release()

	done := make(chan error, 1)
	go func() {
		_, err := p.RunBody(r, []byte("--B"), headers, 1<<20, bufs)
		done <- err
	}()

	require.NoError(t, <-done)
}

func TestHeadersFuture_CancelBeforeResolve(t *testing.T) {
	f := newHeadersFuture()
	f.Cancel()
	require.True(t, f.IsCancelled())

	f.resolve(nil, mderrors.ErrCancelled)

	_, err := f.Wait()
	require.ErrorIs(t, err, mderrors.ErrCancelled)
}

// TestPart_RunHeaders_CancelledBeforeRun exercises the cancellation contract
// through Part.RunHeaders itself, not just HeadersFuture in isolation: a
// part released before its headers were ever parsed must resolve Headers to
// mderrors.ErrCancelled, and RunHeaders must still report success to its
// caller (the producer), since the input was well-formed.
func TestPart_RunHeaders_CancelledBeforeRun(t *testing.T) {
	r := scan.New(strings.NewReader("Content-Type: text/plain\r\n\r\n"), 64)

	p := New(1)
	p.Headers.Cancel()

	err := p.RunHeaders(r, 8192)
	require.NoError(t, err)

	_, err = p.Headers.Wait()
	require.ErrorIs(t, err, mderrors.ErrCancelled)
}
