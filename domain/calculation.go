package domain

import (
	"time"

	"github.com/google/uuid"
)

// Calculation is a persisted record of one loan calculation.
type Calculation struct {
	ID        uuid.UUID  `json:"id"`
	Loan      Loan       `json:"loan"`
	Result    LoanResult `json:"result"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewCalculation stamps a result with a fresh ID and creation time.
func NewCalculation(loan Loan, result LoanResult) Calculation {
	return Calculation{
		ID:        uuid.New(),
		Loan:      loan,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
}
