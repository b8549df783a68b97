package index

import (
	"errors"
	"fmt"
)

// ErrMalformedIndex is the sentinel every index construction failure unwraps to.
var ErrMalformedIndex = errors.New("malformed slide index")

// MalformedIndexError describes why a deck directory could not be indexed.
type MalformedIndexError struct {
	Dir    string // Deck directory
	Page   int    // Offending page number, 0 when not page specific
	Reason string // Human-readable cause
	Err    error  // Underlying error, if any
}

func (e *MalformedIndexError) Error() string {
	msg := fmt.Sprintf("malformed slide index %s", e.Dir)
	if e.Page > 0 {
		msg += fmt.Sprintf(" (page %d)", e.Page)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedIndexError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedIndex
}

func (e *MalformedIndexError) Is(target error) bool {
	return target == ErrMalformedIndex
}

func malformed(dir string, page int, reason string, err error) error {
	return &MalformedIndexError{Dir: dir, Page: page, Reason: reason, Err: err}
}
