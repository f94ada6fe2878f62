package registry

import (
	"context"
	"errors"
	"testing"
	"tg-info-bot/internal/database/models"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserStore is a mock for database.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Load(ctx context.Context) (map[int64]models.UserRecord, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).(map[int64]models.UserRecord); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) Upsert(ctx context.Context, rec models.UserRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockUserStore) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	user := &telego.User{ID: 42, FirstName: "Ada", Username: "ada"}

	t.Run("SameUserTwice", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("Load", ctx).Return(map[int64]models.UserRecord{}, nil).Once()
		store.On("Upsert", ctx, mock.AnythingOfType("models.UserRecord")).Return(nil).Twice()

		reg, err := New(ctx, store)
		require.NoError(t, err)
		reg.now = func() time.Time { return now }

		reg.Record(ctx, user)
		reg.now = func() time.Time { return now.Add(time.Minute) }
		reg.Record(ctx, user)

		assert.Equal(t, 1, reg.Count())
		rec, ok := reg.Get(42)
		require.True(t, ok)
		assert.Equal(t, 2, rec.InteractionCount)
		assert.True(t, rec.FirstSeen.Equal(now))
		assert.True(t, rec.LastSeen.Equal(now.Add(time.Minute)))
		store.AssertExpectations(t)
	})

	t.Run("ContinuesFromStoredCount", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("Load", ctx).Return(map[int64]models.UserRecord{
			42: {ID: 42, FirstName: "Ada", InteractionCount: 9},
		}, nil).Once()
		store.On("Upsert", ctx, mock.MatchedBy(func(rec models.UserRecord) bool {
			return rec.ID == 42 && rec.InteractionCount == 10
		})).Return(nil).Once()

		reg, err := New(ctx, store)
		require.NoError(t, err)
		reg.Record(ctx, user)

		store.AssertExpectations(t)
	})

	t.Run("StoreFailureIsNotFatal", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("Load", ctx).Return(map[int64]models.UserRecord{}, nil).Once()
		store.On("Upsert", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		reg, err := New(ctx, store)
		require.NoError(t, err)

		assert.NotPanics(t, func() { reg.Record(ctx, user) })
		assert.Equal(t, 1, reg.Count())
	})

	t.Run("NilUser", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("Load", ctx).Return(map[int64]models.UserRecord{}, nil).Once()

		reg, err := New(ctx, store)
		require.NoError(t, err)
		reg.Record(ctx, nil)

		assert.Equal(t, 0, reg.Count())
		store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestNewLoadError(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	store.On("Load", ctx).Return(nil, errors.New("boom")).Once()

	_, err := New(ctx, store)
	assert.ErrorContains(t, err, "boom")
}
