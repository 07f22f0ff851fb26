package locker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return m.Called(ctx, key, value, exp).Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

// NewLockService hands out a process-wide instance, so tests build the
// struct directly.
func newTestLocker(repo *MockRedisRepository) *lockService {
	return &lockService{redisRepo: repo, Log: zap.NewNop()}
}

func TestTryLock(t *testing.T) {
	ctx := context.Background()

	t.Run("acquired", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("TrySetNX", ctx, "job", mock.AnythingOfType("string"), time.Minute).Return(true, nil).Once()

		acquired, value, err := newTestLocker(repo).TryLock(ctx, "job", time.Minute)

		require.NoError(t, err)
		assert.True(t, acquired)
		assert.NotEmpty(t, value)
	})

	t.Run("held elsewhere", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("TrySetNX", ctx, "job", mock.Anything, time.Minute).Return(false, nil).Once()

		acquired, value, err := newTestLocker(repo).TryLock(ctx, "job", time.Minute)

		require.NoError(t, err)
		assert.False(t, acquired)
		assert.Empty(t, value)
	})

	t.Run("redis error", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("TrySetNX", ctx, "job", mock.Anything, time.Minute).Return(false, errors.New("down")).Once()

		_, _, err := newTestLocker(repo).TryLock(ctx, "job", time.Minute)
		assert.Error(t, err)
	})
}

func TestUnlock(t *testing.T) {
	ctx := context.Background()

	t.Run("owner releases", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, "job").Return(`"owner-1"`, nil).Once()
		repo.On("Delete", ctx, "job").Return(nil).Once()

		require.NoError(t, newTestLocker(repo).Unlock(ctx, "job", "owner-1"))
		repo.AssertExpectations(t)
	})

	t.Run("expired lock", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, "job").Return("", nil).Once()

		require.NoError(t, newTestLocker(repo).Unlock(ctx, "job", "owner-1"))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("someone else's lock", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, "job").Return(`"owner-2"`, nil).Once()

		assert.Error(t, newTestLocker(repo).Unlock(ctx, "job", "owner-1"))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestNewLockServiceIsShared(t *testing.T) {
	repo := new(MockRedisRepository)
	first := NewLockService(repo, zap.NewNop())
	second := NewLockService(new(MockRedisRepository), zap.NewNop())
	assert.Same(t, first, second)
}
