package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unburyme/domain"
	"unburyme/logger"
	"unburyme/repository"
)

type MockLoanRepository struct {
	Saved      []domain.Calculation
	ForceError bool
}

func (m *MockLoanRepository) Save(_ context.Context, calc domain.Calculation) error {
	if m.ForceError {
		return errors.New("save error")
	}
	m.Saved = append(m.Saved, calc)
	return nil
}

func (m *MockLoanRepository) Recent(_ context.Context, limit int) ([]domain.Calculation, error) {
	if m.ForceError {
		return nil, errors.New("recent error")
	}
	return m.Saved, nil
}

type countingCache struct {
	data map[string]string
	gets int
	hits int
	sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: map[string]string{}}
}

func (c *countingCache) Get(_ context.Context, key string) (string, bool) {
	c.gets++
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *countingCache) Set(_ context.Context, key, value string) error {
	c.sets++
	c.data[key] = value
	return nil
}

func newTestLoanService(repo repository.LoanRepository, cache repository.CacheRepository) *LoanService {
	return NewLoanService(repo, cache, DefaultLimits(), nil)
}

func TestCalculateLoan_WithInterest(t *testing.T) {
	mockRepo := &MockLoanRepository{}
	service := newTestLoanService(mockRepo, nil)

	result, err := service.CalculateLoan(context.Background(), domain.Loan{
		Principal:                 100000,
		AnnualInterestRatePercent: 6,
		TermYears:                 30,
	})

	require.NoError(t, err)
	assert.Equal(t, 599.55, result.MonthlyPayment)
	assert.Equal(t, 360, result.PaymentCount)
	assert.InDelta(t, 215838.19, result.TotalPayment, 0.01)
	assert.InDelta(t, 115838.19, result.TotalInterest, 0.01)
	require.Len(t, mockRepo.Saved, 1)
	assert.Equal(t, result, mockRepo.Saved[0].Result)
}

func TestCalculateLoan_ZeroInterest(t *testing.T) {
	service := newTestLoanService(&MockLoanRepository{}, nil)

	result, err := service.CalculateLoan(context.Background(), domain.Loan{
		Principal:                 10000,
		AnnualInterestRatePercent: 0,
		TermYears:                 5,
	})

	require.NoError(t, err)
	assert.Equal(t, 166.67, result.MonthlyPayment)
	assert.Equal(t, 0.0, result.TotalInterest)
}

func TestCalculateLoan_InvalidTerms(t *testing.T) {
	tests := []struct {
		name string
		loan domain.Loan
	}{
		{"zero principal", domain.Loan{Principal: 0, AnnualInterestRatePercent: 10, TermYears: 1}},
		{"negative rate", domain.Loan{Principal: 1000, AnnualInterestRatePercent: -1, TermYears: 1}},
		{"zero term", domain.Loan{Principal: 1000, AnnualInterestRatePercent: 10, TermYears: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockLoanRepository{}
			service := newTestLoanService(mockRepo, nil)

			_, err := service.CalculateLoan(context.Background(), tt.loan)

			assert.ErrorIs(t, err, domain.ErrInvalidLoanTerms)
			assert.Empty(t, mockRepo.Saved, "repository Save should NOT be called")
		})
	}
}

func TestCalculateLoan_LimitsExceeded(t *testing.T) {
	service := NewLoanService(&MockLoanRepository{}, nil, Limits{MaxPrincipal: 5000, MaxTermYears: 10}, nil)

	_, err := service.CalculateLoan(context.Background(), domain.Loan{Principal: 6000, AnnualInterestRatePercent: 1, TermYears: 1})
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)

	_, err = service.CalculateLoan(context.Background(), domain.Loan{Principal: 1000, AnnualInterestRatePercent: 1, TermYears: 11})
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)

	_, err = service.CalculateLoan(context.Background(), domain.Loan{Principal: 1000, AnnualInterestRatePercent: 1001, TermYears: 1})
	assert.ErrorIs(t, err, domain.ErrLimitExceeded, "rate falls back to the default maximum")
}

func TestCalculateLoan_SaveFailureIsNotFatal(t *testing.T) {
	service := newTestLoanService(&MockLoanRepository{ForceError: true}, nil)

	result, err := service.CalculateLoan(context.Background(), domain.Loan{Principal: 1200, AnnualInterestRatePercent: 0, TermYears: 1})

	require.NoError(t, err)
	assert.Equal(t, 100.0, result.MonthlyPayment)
}

func TestCalculateLoan_UsesCache(t *testing.T) {
	cache := newCountingCache()
	service := newTestLoanService(&MockLoanRepository{}, cache)
	loan := domain.Loan{Principal: 50000, AnnualInterestRatePercent: 5, TermYears: 15}

	first, err := service.CalculateLoan(context.Background(), loan)
	require.NoError(t, err)
	second, err := service.CalculateLoan(context.Background(), loan)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets)
}

func TestCalculateLoan_IgnoresCorruptCacheEntry(t *testing.T) {
	cache := newCountingCache()
	loan := domain.Loan{Principal: 1200, AnnualInterestRatePercent: 0, TermYears: 1}
	cache.data[repository.CacheKey(cachePrefixLoan, loan)] = "{not json"
	service := newTestLoanService(&MockLoanRepository{}, cache)

	result, err := service.CalculateLoan(context.Background(), loan)

	require.NoError(t, err)
	assert.Equal(t, 100.0, result.MonthlyPayment)
	assert.Equal(t, 1, cache.sets)
}

func TestSchedule_Unrounded(t *testing.T) {
	service := newTestLoanService(&MockLoanRepository{}, nil)

	schedule, err := service.Schedule(context.Background(), domain.Loan{Principal: 100000, AnnualInterestRatePercent: 6, TermYears: 30})

	require.NoError(t, err)
	require.Len(t, schedule, 360)
	assert.NotEqual(t, roundTo2Decimals(schedule[0].PrincipalPortion), schedule[0].PrincipalPortion)
}

func TestHistory(t *testing.T) {
	repo := repository.NewLoanRepositoryMemory()
	service := newTestLoanService(repo, nil)
	ctx := context.Background()

	for _, years := range []int{1, 2, 3} {
		_, err := service.CalculateLoan(ctx, domain.Loan{Principal: 1000, AnnualInterestRatePercent: 3, TermYears: years})
		require.NoError(t, err)
	}

	history, err := service.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].Loan.TermYears)

	_, err = newTestLoanService(&MockLoanRepository{ForceError: true}, nil).History(ctx, 1)
	assert.Error(t, err)
}

func TestRoundTo2Decimals(t *testing.T) {
	assert.Equal(t, 599.55, roundTo2Decimals(599.5505251))
	assert.Equal(t, 166.67, roundTo2Decimals(10000.0/60))
	assert.Equal(t, 0.0, roundTo2Decimals(0.004))
}

func TestCalculateLoan_LogsUnderOwnComponent(t *testing.T) {
	var buf bytes.Buffer
	requestLogger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With(logger.FieldRequestID, "req-1")
	ctx := logger.WithContext(context.Background(), requestLogger)
	service := newTestLoanService(&MockLoanRepository{ForceError: true}, nil)

	_, err := service.CalculateLoan(ctx, domain.Loan{Principal: 1000, AnnualInterestRatePercent: 5, TermYears: 1})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, logger.ComponentLoan, entry[logger.FieldComponent], line)
		assert.Equal(t, "req-1", entry[logger.FieldRequestID], line)
	}
	assert.Contains(t, buf.String(), "failed to save loan calculation")
}
