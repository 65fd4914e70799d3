package lambdakernel

import "fmt"

type parseError struct {
	error error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.error.Error())
}

type validationError struct {
	error error
}

func (e *validationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.error.Error())
}

type unknownOp struct {
	Op string
}

func (e *unknownOp) Error() string {
	return fmt.Sprintf("unknown op: %q", e.Op)
}

type fuelLimitExceeded struct {
	Requested int
	Max       int
}

func (e *fuelLimitExceeded) Error() string {
	return fmt.Sprintf("requested fuel %d exceeds limit %d", e.Requested, e.Max)
}

type noSuchProof struct {
	ID string
}

func (e *noSuchProof) Error() string {
	return fmt.Sprintf("no such proof: %s", e.ID)
}
