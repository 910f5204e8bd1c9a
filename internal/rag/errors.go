package rag

import "errors"

// ValidationError marks bad user input (empty query, out-of-range
// result count). The API layer maps it to a 400 response with the
// message verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
