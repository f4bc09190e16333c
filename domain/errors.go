package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLoanTerms is returned when a loan's principal, rate or term
	// cannot be amortized. Concrete errors wrap it as *LoanTermsError.
	ErrInvalidLoanTerms = errors.New("invalid loan terms")

	// ErrLimitExceeded is returned when valid terms fall outside the
	// operator-configured bounds.
	ErrLimitExceeded = errors.New("loan terms exceed configured limits")
)

// LoanTermsError describes which field of a loan failed validation.
type LoanTermsError struct {
	Field  string
	Reason string
	Err    error
}

// NewLoanTermsError returns a *LoanTermsError wrapping ErrInvalidLoanTerms.
func NewLoanTermsError(field, reason string) *LoanTermsError {
	return &LoanTermsError{Field: field, Reason: reason, Err: ErrInvalidLoanTerms}
}

func (e *LoanTermsError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *LoanTermsError) Unwrap() error {
	return e.Err
}
