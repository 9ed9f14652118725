package intake

import "errors"

var (
	// ErrEmptyInput is returned when there is no text to analyze
	ErrEmptyInput = errors.New("no text to analyze")
)
