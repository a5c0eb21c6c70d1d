package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetRate(ctx context.Context, where ratedomain.Discriminators, sel ratedomain.ColumnSet) (*ratedomain.RateRow, error) {
	args := m.Called(ctx, where, sel)
	row, _ := args.Get(0).(*ratedomain.RateRow)
	return row, args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, row *ratedomain.RateRow) error {
	return m.Called(ctx, row).Error(0)
}

func (m *MockRepository) List(ctx context.Context, opts ratedomain.ListOptions) ([]ratedomain.RateRow, error) {
	args := m.Called(ctx, opts)
	rows, _ := args.Get(0).([]ratedomain.RateRow)
	return rows, args.Error(1)
}

func newCachedRepository(t *testing.T, next ratedomain.Repository) (*CachedRepository, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCachedRepository(next, client, time.Minute, zap.NewNop()), s
}

var (
	cachedKey = lookupKey(ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceFirstMinutes)
	cachedSel = ratedomain.ColumnSet{ratedomain.ColumnPaidByClientGeneralWithGst}
)

func TestCachedRepositoryReadsThrough(t *testing.T) {
	ctx := context.Background()
	next := &MockRepository{}
	row := testRow("std-first", ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceFirstMinutes, "50.25")
	next.On("GetRate", mock.Anything, cachedKey, cachedSel).Return(row, nil).Once()

	repo, _ := newCachedRepository(t, next)

	for i := 0; i < 3; i++ {
		got, err := repo.GetRate(ctx, cachedKey, cachedSel)
		require.NoError(t, err)
		assert.Equal(t, "std-first", got.Code)
		assert.True(t, decimal.RequireFromString("50.25").Equal(got.Price(ratedomain.ColumnPaidByClientGeneralWithGst).Decimal))
	}
	next.AssertExpectations(t)
}

func TestCachedRepositoryDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	next := &MockRepository{}
	next.On("GetRate", mock.Anything, cachedKey, cachedSel).Return(nil, ratedomain.ErrRateNotFound).Twice()

	repo, _ := newCachedRepository(t, next)

	for i := 0; i < 2; i++ {
		_, err := repo.GetRate(ctx, cachedKey, cachedSel)
		assert.ErrorIs(t, err, ratedomain.ErrRateNotFound)
	}
	next.AssertExpectations(t)
}

func TestCachedRepositoryUpsertInvalidates(t *testing.T) {
	ctx := context.Background()
	next := &MockRepository{}
	old := testRow("std-first", ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceFirstMinutes, "50")
	updated := testRow("std-first", ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceFirstMinutes, "60")
	next.On("GetRate", mock.Anything, cachedKey, cachedSel).Return(old, nil).Once()
	next.On("Upsert", mock.Anything, updated).Return(nil).Once()
	next.On("GetRate", mock.Anything, cachedKey, cachedSel).Return(updated, nil).Once()

	repo, _ := newCachedRepository(t, next)

	got, err := repo.GetRate(ctx, cachedKey, cachedSel)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(got.Price(ratedomain.ColumnPaidByClientGeneralWithGst).Decimal))

	require.NoError(t, repo.Upsert(ctx, updated))

	got, err = repo.GetRate(ctx, cachedKey, cachedSel)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(got.Price(ratedomain.ColumnPaidByClientGeneralWithGst).Decimal))
	next.AssertExpectations(t)
}

func TestCachedRepositoryFallsBackWhenRedisIsDown(t *testing.T) {
	next := &MockRepository{}
	row := testRow("std-first", ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceFirstMinutes, "50")
	next.On("GetRate", mock.Anything, cachedKey, cachedSel).Return(row, nil).Twice()

	repo, s := newCachedRepository(t, next)
	s.Close()

	for i := 0; i < 2; i++ {
		got, err := repo.GetRate(context.Background(), cachedKey, cachedSel)
		require.NoError(t, err)
		assert.Equal(t, "std-first", got.Code)
	}
	next.AssertExpectations(t)
}

func TestCachedRepositoryUpsertPurgesWhenGenerationBumpFails(t *testing.T) {
	ctx := context.Background()
	next := &MockRepository{}
	old := testRow("std-first", ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceFirstMinutes, "50")
	updated := testRow("std-first", ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceFirstMinutes, "60")
	next.On("GetRate", mock.Anything, cachedKey, cachedSel).Return(old, nil).Once()
	next.On("Upsert", mock.Anything, updated).Return(nil).Once()
	next.On("GetRate", mock.Anything, cachedKey, cachedSel).Return(updated, nil).Once()

	repo, s := newCachedRepository(t, next)

	_, err := repo.GetRate(ctx, cachedKey, cachedSel)
	require.NoError(t, err)
	cached := cacheKey(0, cachedKey, cachedSel)
	require.True(t, s.Exists(cached))

	// INCR fails on a non-integer value.
	require.NoError(t, s.Set(cacheGenerationKey, "corrupt"))
	require.NoError(t, repo.Upsert(ctx, updated))
	assert.False(t, s.Exists(cached))
	assert.True(t, s.Exists(cacheGenerationKey))

	s.Del(cacheGenerationKey)
	got, err := repo.GetRate(ctx, cachedKey, cachedSel)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(got.Price(ratedomain.ColumnPaidByClientGeneralWithGst).Decimal))
	next.AssertExpectations(t)
}

func TestCachedRepositoryUpsertReportsUnreachableCache(t *testing.T) {
	next := &MockRepository{}
	row := testRow("std-first", ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceFirstMinutes, "60")
	next.On("Upsert", mock.Anything, row).Return(nil).Once()

	repo, s := newCachedRepository(t, next)
	s.Close()

	err := repo.Upsert(context.Background(), row)
	assert.ErrorContains(t, err, "cache invalidation failed")
	next.AssertExpectations(t)
}
