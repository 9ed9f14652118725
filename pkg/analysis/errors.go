package analysis

import "errors"

var (
	// ErrAnalysisFailed is returned when a classifier faults; no report is produced
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrBankConfig is returned when a keyword bank file cannot be read or decoded
	ErrBankConfig = errors.New("invalid keyword bank config")
)
