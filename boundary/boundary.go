// Package boundary extracts the multipart boundary token from a
// Content-Type header value (C1).
package boundary

import (
	"github.com/indigo-web/multipart/mderrors"
	"github.com/indigo-web/utils/uf"
)

const (
	prefix      = "\r\n--"
	maxValueLen = 70
	bufCap      = len(prefix) + maxValueLen
	paramName   = "boundary="
)

// Token is CRLF "--" boundary-value, sized to never exceed 74 bytes.
type Token struct {
	buf []byte
}

// Full returns the complete token, used to find a boundary between parts.
func (t Token) Full() []byte {
	return t.buf
}

// First returns the token without its leading CRLF, used to find the very
// first boundary, since the body may open directly with "--boundary" with
// no preceding blank line.
func (t Token) First() []byte {
	return t.buf[2:]
}

// Value returns the boundary-value itself, without the CRLF "--" prefix.
func (t Token) Value() []byte {
	return t.buf[len(prefix):]
}

// ValueString is Value as a string, without copying.
func (t Token) ValueString() string {
	return uf.B2S(t.Value())
}

// Extract locates the boundary parameter in a Content-Type value and
// builds its token. The value is copied directly from contentType into the
// token's own buffer; no intermediate substrings are allocated.
func Extract(contentType string) (Token, error) {
	offset, ok := locateBoundaryValue(contentType)
	if !ok {
		return Token{}, mderrors.ErrMissingBoundary
	}

	return copyValue(contentType[offset:])
}

type state uint8

const (
	stHeaderValue state = iota
	stParamName
	stParamValueUnquoted
	stParamValueQuoted
	stParamValueQuotedClose
	stQuotedEscape
)

// locateBoundaryValue walks the header value looking for a boundary=
// parameter, returning the offset of the first byte of its value. Commas
// reset the scan to header-value, since Content-Type can in principle list
// comma-separated alternatives and only the first boundary= found in the
// currently-selected alternative counts.
func locateBoundaryValue(s string) (offset int, found bool) {
	st := stHeaderValue
	nameCounter := 0

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch st {
		case stHeaderValue:
			if c == ';' {
				st = stParamName
				nameCounter = 0
			}

		case stParamName:
			if nameCounter == 0 && hasPrefixAt(s, i, paramName) {
				return i + len(paramName), true
			}

			switch c {
			case '=':
				st = stParamValueUnquoted
			case ';':
				nameCounter = 0
			case ',':
				st = stHeaderValue
			case ' ', '\t':
			default:
				nameCounter++
			}

		case stParamValueUnquoted:
			switch c {
			case '"':
				st = stParamValueQuoted
			case ';':
				st = stParamName
				nameCounter = 0
			case ',':
				st = stHeaderValue
			}

		case stParamValueQuoted:
			switch c {
			case '\\':
				st = stQuotedEscape
			case '"':
				st = stParamValueQuotedClose
			}

		case stParamValueQuotedClose:
			switch c {
			case ';':
				st = stParamName
				nameCounter = 0
			case ',':
				st = stHeaderValue
			}

		case stQuotedEscape:
			st = stParamValueQuoted
		}
	}

	return 0, false
}

func hasPrefixAt(s string, i int, prefix string) bool {
	if i+len(prefix) > len(s) {
		return false
	}

	return s[i:i+len(prefix)] == prefix
}

// copyValue implements the second pass: given everything right after
// "boundary=", copy the value into a fresh token buffer.
func copyValue(s string) (Token, error) {
	buf := make([]byte, len(prefix), bufCap)
	copy(buf, prefix)

	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	quoted := i < len(s) && s[i] == '"'
	if quoted {
		i++
	}

	for i < len(s) {
		c := s[i]

		if quoted {
			if c == '"' {
				break
			}

			if c == '\\' && i+1 < len(s) {
				i++
				c = s[i]
			}
		} else if c == ' ' || c == '\t' || c == ',' || c == ';' || c == '\r' || c == '\n' {
			break
		}

		if c > 0x7F {
			return Token{}, mderrors.ErrBoundaryNon7Bit
		}

		if len(buf) >= bufCap {
			return Token{}, mderrors.ErrBoundaryTooLong
		}

		buf = append(buf, c)
		i++
	}

	if len(buf) == len(prefix) {
		return Token{}, mderrors.ErrBoundaryEmpty
	}

	return Token{buf: buf}, nil
}
