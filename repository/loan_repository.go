package repository

import (
	"context"

	"unburyme/domain"
)

// LoanRepository keeps a history of loan calculations.
type LoanRepository interface {
	Save(ctx context.Context, calc domain.Calculation) error
	// Recent returns up to limit calculations, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Calculation, error)
}
