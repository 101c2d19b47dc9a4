// Package multipart is a streaming parser for multipart/* request and
// response bodies (RFC 2046, RFC 7578). It never buffers a whole body in
// memory: Parse returns an EventStream that yields a Preamble, one Part per
// body part, and an Epilogue, with each part's headers and body themselves
// yielded incrementally as the input arrives.
package multipart

import (
	"io"
	"strings"

	"github.com/indigo-web/multipart/boundary"
	"github.com/indigo-web/multipart/config"
	"github.com/indigo-web/multipart/internal/scan"
	"github.com/indigo-web/multipart/internal/strutil"
	"github.com/indigo-web/multipart/mderrors"
)

// ExpectMultipart reports whether a Content-Type header value names a
// multipart/* subtype. Callers normally guard Parse with this, since Parse
// itself only ever returns mderrors.ErrNotMultipart for the same check.
func ExpectMultipart(contentType string) bool {
	value, _ := strutil.CutHeader(contentType)
	return strings.HasPrefix(value, "multipart/")
}

// Parse extracts the boundary from contentType and starts parsing input.
// totalLength is the body's total size in bytes, or UnknownLength if it
// isn't known in advance (in which case no Epilogue event is ever
// produced, since there would be no way to tell the epilogue's end from a
// truncated stream). cfg may be nil, in which case config.Default() is
// used.
//
// Parsing happens in its own goroutine; the returned EventStream is ready
// to read from immediately. A non-nil error here means contentType is not
// multipart or the boundary couldn't even be extracted, so no goroutine is
// started and the stream is never touched.
func Parse(input io.Reader, contentType string, totalLength int64, cfg *config.Config) (*EventStream, error) {
	if !ExpectMultipart(contentType) {
		return nil, mderrors.ErrNotMultipart
	}

	tok, err := boundary.Extract(contentType)
	if err != nil {
		return nil, err
	}

	return ParseWithBoundary(tok, input, totalLength, cfg), nil
}

// ParseWithBoundary is Parse's lower-level entry point, for a caller that
// already has the boundary token (extracted once, reused across many
// requests that are known to share it, or supplied out of band entirely).
func ParseWithBoundary(tok boundary.Token, input io.Reader, totalLength int64, cfg *config.Config) *EventStream {
	if cfg == nil {
		cfg = config.Default()
	}

	r := scan.New(input, cfg.ScratchBuffer.Size)
	p := newProducer(tok, r, totalLength, cfg)

	go p.run()

	return p.stream
}
