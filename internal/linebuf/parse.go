package linebuf

import (
	"bytes"

	"github.com/indigo-web/multipart/internal/buffer"
	"github.com/indigo-web/multipart/internal/scan"
	"github.com/indigo-web/multipart/internal/strutil"
	"github.com/indigo-web/multipart/mderrors"
)

var crlf = []byte("\r\n")

// ParseHeaders reads CRLF-terminated header lines from r up to the
// terminating empty line, the collaborator contract described in the core's
// part-header grammar: it advances r past the whole header block, including
// the final CRLF CRLF, and returns the accumulated map.
func ParseHeaders(r *scan.Reader, maxLineSize int) (*Headers, error) {
	h := New()
	line := buffer.New(256, maxLineSize)
	scratch := make([]byte, 512)

	for {
		line.Clear()

		if ok, err := line.Fill(r, crlf, scratch); err != nil {
			return nil, err
		} else if !ok {
			return nil, mderrors.ErrMalformedHeaders
		}

		if err := r.SkipDelim(crlf); err != nil {
			return nil, err
		}

		raw := line.Preview()
		if len(raw) == 0 {
			return h, nil
		}

		name, value, ok := splitHeaderLine(raw)
		if !ok {
			return nil, mderrors.ErrMalformedHeaders
		}

		h.Add(name, value)
	}
}

// splitHeaderLine splits "Name: value" on the first colon. A line with no
// colon, or an empty name, violates the header grammar.
func splitHeaderLine(line []byte) (name, value string, ok bool) {
	sep := bytes.IndexByte(line, ':')
	if sep <= 0 {
		return "", "", false
	}

	name = string(line[:sep])
	value = strutil.LStripWS(string(line[sep+1:]))
	value = strutil.RStripWS(value)

	return name, value, true
}
