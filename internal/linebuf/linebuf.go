// Package linebuf is the headers-map collaborator (C5): it owns the ordered,
// case-insensitive multimap a part's header block is parsed into, and the
// line-accumulation loop that fills it off a delimited reader. Split out of
// part so the part scanner (C3) is left with only the body-copying half of
// its job, generalized from the teacher's kv.Storage: linear search over a
// small slice of pairs, which is cheaper than a real map for the handful of
// headers a part typically carries.
package linebuf

import (
	"iter"
	"strconv"
	"strings"
)

type pair struct {
	Name, Value string
}

// Headers is an ordered, case-insensitive multimap of header name to value.
type Headers struct {
	pairs []pair
}

// New returns an empty Headers, for callers that need a non-nil headers
// block when none was ever parsed (a released part whose producer still has
// to drain its body off the wire).
func New() *Headers {
	return &Headers{}
}

// Add appends a name/value pair, preserving insertion order.
func (h *Headers) Add(name, value string) {
	h.pairs = append(h.pairs, pair{Name: name, Value: value})
}

// Get returns the first value stored under name, case-insensitively.
func (h *Headers) Get(name string) (string, bool) {
	for _, p := range h.pairs {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}

	return "", false
}

// Values returns every value stored under name, in insertion order.
func (h *Headers) Values(name string) []string {
	var out []string

	for _, p := range h.pairs {
		if strings.EqualFold(p.Name, name) {
			out = append(out, p.Value)
		}
	}

	return out
}

// Len returns the number of header lines parsed.
func (h *Headers) Len() int {
	return len(h.pairs)
}

// All iterates every name/value pair in source order.
func (h *Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, p := range h.pairs {
			if !yield(p.Name, p.Value) {
				return
			}
		}
	}
}

// ContentLength reports the part's Content-Length header, the only header
// the core itself consults.
func (h *Headers) ContentLength() (int64, bool) {
	v, ok := h.Get("Content-Length")
	if !ok {
		return 0, false
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}
