package domain

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable marks failures to reach or query the listing store.
var ErrStoreUnavailable = errors.New("listing store unavailable")

// ValidationError reports a request field that is missing, mistyped or out of range.
// Its message is safe to return to clients.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// CandidateDataError reports a single stored listing that cannot be ranked,
// typically because its location is missing or malformed.
type CandidateDataError struct {
	ListingID string
	Err       error
}

func (e *CandidateDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("listing %s: invalid candidate data: %v", e.ListingID, e.Err)
	}
	return fmt.Sprintf("listing %s: invalid candidate data", e.ListingID)
}

func (e *CandidateDataError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
