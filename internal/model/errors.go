package model

import (
	"errors"
	"fmt"
)

// ErrMalformedListing marks a scraped listing row missing required fields.
// The affected listing is skipped; the rest of the fetch is unaffected.
var ErrMalformedListing = errors.New("malformed listing")

// ConnectivityError wraps a network failure that should abort the current
// watch cycle. The next scheduled cycle starts clean.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsConnectivity reports whether err is (or wraps) a ConnectivityError.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}
