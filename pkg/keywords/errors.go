package keywords

import "errors"

var (
	// ErrMalformedBank is returned when a bank contains blank, duplicate or oversized phrases
	ErrMalformedBank = errors.New("malformed keyword bank")
)
