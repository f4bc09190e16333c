package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"unburyme/domain"

	_ "modernc.org/sqlite"
)

// Fixed-width so created_at sorts lexically in chronological order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// LoanRepositorySQLite persists calculations in a SQLite database.
type LoanRepositorySQLite struct {
	db *sql.DB
}

// NewLoanRepositorySQLite opens (creating if needed) the database at dbPath
// and applies migrations.
func NewLoanRepositorySQLite(dbPath string) (*LoanRepositorySQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &LoanRepositorySQLite{db: db}, nil
}

func (r *LoanRepositorySQLite) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *LoanRepositorySQLite) Save(ctx context.Context, calc domain.Calculation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calculations (
			id, principal, interest_rate, term_years,
			monthly_payment, total_payment, total_interest, payment_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		calc.ID.String(),
		calc.Loan.Principal,
		calc.Loan.AnnualInterestRatePercent,
		calc.Loan.TermYears,
		calc.Result.MonthlyPayment,
		calc.Result.TotalPayment,
		calc.Result.TotalInterest,
		calc.Result.PaymentCount,
		calc.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

func (r *LoanRepositorySQLite) Recent(ctx context.Context, limit int) ([]domain.Calculation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, principal, interest_rate, term_years,
			monthly_payment, total_payment, total_interest, payment_count, created_at
		FROM calculations
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var out []domain.Calculation
	for rows.Next() {
		var (
			calc      domain.Calculation
			id        string
			createdAt string
		)
		if err := rows.Scan(
			&id,
			&calc.Loan.Principal,
			&calc.Loan.AnnualInterestRatePercent,
			&calc.Loan.TermYears,
			&calc.Result.MonthlyPayment,
			&calc.Result.TotalPayment,
			&calc.Result.TotalInterest,
			&calc.Result.PaymentCount,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		if calc.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse calculation id %q: %w", id, err)
		}
		if calc.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		out = append(out, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return out, nil
}
