package store

import "errors"

// OpError is a backend failure during a store operation.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }
func (e *OpError) Unwrap() error { return e.Err }

// Wrap tags err with op. Sentinel errors pass through unchanged so callers
// can keep matching them with ==.
func Wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) {
		return err
	}
	return &OpError{Op: op, Err: err}
}
