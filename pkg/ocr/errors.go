package ocr

import "errors"

var (
	// ErrRecognitionFailed is returned when the OCR backend could not read the image
	ErrRecognitionFailed = errors.New("ocr recognition failed")

	// ErrCircuitOpen is returned while the breaker is skipping a failing backend
	ErrCircuitOpen = errors.New("ocr circuit breaker is open")

	// ErrNotConfigured is returned when an image is supplied but no recognizer is set up
	ErrNotConfigured = errors.New("ocr not configured")
)
