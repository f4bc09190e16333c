package repository

import (
	"context"
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"unburyme/domain"
)

// CacheRepository stores serialized calculation results.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// CacheKey derives a stable key from the loan terms.
func CacheKey(prefix string, loan domain.Loan) string {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(loan.Principal))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(loan.AnnualInterestRatePercent))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(int64(loan.TermYears)))
	return prefix + ":" + strconv.FormatUint(xxhash.Sum64(buf[:]), 16)
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (string, bool) { return "", false }

func (NoopCache) Set(context.Context, string, string) error { return nil }
