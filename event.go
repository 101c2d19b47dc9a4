package multipart

import "github.com/indigo-web/multipart/part"

// Kind tags which variant a Event carries.
type Kind uint8

const (
	KindPreamble Kind = iota + 1
	KindPart
	KindEpilogue
)

// Event is the tagged variant the event producer (C4) emits: Preamble and
// Epilogue carry raw bytes, Part carries the deferred headers/body pair.
// Exactly one of Preamble, Part, or Epilogue is meaningful, selected by
// Kind.
type Event struct {
	Kind     Kind
	Preamble []byte
	Part     *part.Part
	Epilogue []byte
}

// Release drops the event's resources. For Preamble/Epilogue this is a
// no-op (their buffers have no further lifecycle); for Part it cancels the
// pending headers future and drains the body, per the core's release
// contract: idempotent, safe to call after partial or full consumption.
func (e Event) Release() {
	if e.Kind == KindPart && e.Part != nil {
		e.Part.Release()
	}
}
