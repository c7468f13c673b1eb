// Package ml loads the pre-trained classifier and serves predictions from it.
package ml

import "errors"

var (
	// ErrModelUnavailable indicates the model or dataset structure failed to load
	ErrModelUnavailable = errors.New("classifier unavailable")

	// ErrInvalidInput indicates the request cannot be turned into an instance
	ErrInvalidInput = errors.New("invalid prediction input")

	// ErrClassification indicates the classifier failed on a well-formed instance
	ErrClassification = errors.New("classification failed")

	// ErrInvalidARFF indicates a malformed dataset structure file
	ErrInvalidARFF = errors.New("invalid ARFF")

	// ErrInvalidModel indicates a malformed or incompatible model artifact
	ErrInvalidModel = errors.New("invalid model artifact")
)
