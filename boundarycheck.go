package multipart

import "github.com/indigo-web/multipart/internal/scan"

// checkBoundary implements the core's boundary(input) routine: it consumes
// a just-located boundary token (tok) and determines whether it is the
// closing form (token "--") or an open one (token CRLF, more parts
// follow). The CRLF/padding after an open boundary is left unconsumed, for
// betweenParts to read.
func checkBoundary(r *scan.Reader, tok []byte) (closing bool, err error) {
	if err := r.SkipDelim(tok); err != nil {
		return false, err
	}

	b1, err := r.LookAhead(1)
	if err != nil {
		return false, err
	}

	if b1[0] != '-' {
		r.Consumed(0)
		return false, nil
	}

	b2, err := r.LookAhead(2)
	if err != nil {
		return false, err
	}

	if b2[1] == '-' {
		r.Consumed(2)
		return true, nil
	}

	// Permissive second pass, kept for compatibility with the source's
	// boundary() routine: a lone '-' that didn't pair up at the very next
	// byte is still treated as closing if the byte after that does. It's
	// redundant for well-formed input; see the design notes on whether
	// it's intentional.
	b3, err := r.LookAhead(3)
	if err != nil {
		return false, err
	}

	if b3[2] == '-' {
		r.Consumed(3)
		return true, nil
	}

	r.Consumed(0)
	return false, nil
}
