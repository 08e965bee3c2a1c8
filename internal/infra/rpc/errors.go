package rpc

import "errors"

// ErrBlockNotFound is returned by GetBlock when the endpoint affirmatively
// reports that no block exists for the requested hash. It is distinct from
// transport failures, which surface as *Error.
var ErrBlockNotFound = errors.New("block not found")

// Error tags a transport failure with the logical operation that issued it,
// so call provenance survives regardless of which wire method failed.
type Error struct {
	// Op is the logical operation name, e.g. "get_proof".
	Op string
	// Err is the underlying cause, nil when unknown.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
