// Package strutil holds the small header-value parsing helpers this module
// uses: splitting a Content-Type into its value and its parameters
// (multipart.ExpectMultipart), trimming a part header's value
// (linebuf.splitHeaderLine), and splitting a part's Content-Disposition into
// its params for a caller decoding form fields (CutParams, WalkKV).
package strutil

import "strings"

// LStripWS trims leading spaces and tabs, used on a header value's leading
// whitespace (e.g. the space after "Content-Disposition:") and between
// CutHeader's params and the next WalkKV key.
func LStripWS(str string) string {
	for i, c := range str {
		switch c {
		// TODO: consider adding more whitespace characters?
		case ' ', '\t':
		default:
			return str[i:]
		}
	}

	return ""
}

// RStripWS trims trailing spaces and tabs, used by linebuf.splitHeaderLine
// on a header's value before CRLF.
func RStripWS(str string) string {
	for i := len(str); i > 0; i-- {
		switch str[i-1] {
		case ' ', '\t':
		default:
			return str[:i]
		}
	}

	return ""
}

// CutParams behaves exactly as strings.Cut, but strips whitespaces between value
// and the first-encountered parameter in addition. Used on a part's
// Content-Disposition value to hand WalkKV just the "name=...; filename=..."
// tail.
func CutParams(header string) (params string) {
	_, params = CutHeader(header)
	return params
}

// CutHeader splits a header value from its ";"-separated parameters, e.g.
// "multipart/form-data" / "boundary=X" out of a Content-Type value.
func CutHeader(header string) (value, params string) {
	sep := strings.IndexByte(header, ';')
	if sep == -1 {
		return header, ""
	}

	return header[:sep], LStripWS(header[sep+1:])
}

// Unquote strips a single layer of surrounding double quotes, as found
// around a Content-Disposition param value like filename="a.txt".
func Unquote(str string) string {
	if len(str) > 1 && str[0] == '"' && str[len(str)-1] == '"' {
		return str[1 : len(str)-1]
	}

	return str
}
