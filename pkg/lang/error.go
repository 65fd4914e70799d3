package lang

import "fmt"

// WellFormednessError rejects a malformed term at a construction or decoding
// boundary.
type WellFormednessError struct {
	Index  int
	Depth  int
	Reason string
}

func (e *WellFormednessError) Error() string {
	if e.Reason == "nil subterm" {
		return fmt.Sprintf("ill-formed term: nil subterm at binder depth %d", e.Depth)
	}
	return fmt.Sprintf("ill-formed term: %s: index %d at binder depth %d", e.Reason, e.Index, e.Depth)
}

// DecodeError reports malformed bytes handed to DecodeTerm or DecodeProof.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at byte %d: %s", e.Offset, e.Reason)
}
