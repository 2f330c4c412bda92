package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

// MockSource is a mock implementation of Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Load(ctx context.Context) ([]types.UserRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserRecord), args.Error(1)
}

func (m *MockSource) Name() string {
	args := m.Called()
	return args.String(0)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	records := []types.UserRecord{{LastName: "Miller", Email: "m@x.com", Gender: types.GenderMale, City: "Lisbon"}}
	store.Set(ctx, "file:embedded", records)

	got, ok := store.Get(ctx, "file:embedded")
	require.True(t, ok)
	assert.Equal(t, records, got)

	got[0].City = "Porto"
	again, _ := store.Get(ctx, "file:embedded")
	assert.Equal(t, "Lisbon", again[0].City, "stored snapshot must not be shared with callers")
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(20 * time.Millisecond)
	store.Set(ctx, "k", []types.UserRecord{{LastName: "Ng"}})

	time.Sleep(50 * time.Millisecond)
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()
	records := []types.UserRecord{
		{LastName: "Miller", Email: "m@x.com", Gender: types.GenderMale, Income: 3, City: "Lisbon"},
	}

	t.Run("LoadsInnerOnceWithinTTL", func(t *testing.T) {
		inner := new(MockSource)
		inner.On("Name").Return("file:test")
		inner.On("Load", mock.Anything).Return(records, nil).Once()

		src := NewCachedSource(inner, NewMemoryStore(time.Minute), nil, testLogger())
		for i := 0; i < 3; i++ {
			got, err := src.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, records, got)
		}
		assert.Equal(t, "file:test", src.Name())
		inner.AssertNumberOfCalls(t, "Load", 1)
		inner.AssertExpectations(t)
	})

	t.Run("DoesNotCacheErrors", func(t *testing.T) {
		inner := new(MockSource)
		inner.On("Name").Return("http:down")
		inner.On("Load", mock.Anything).Return(nil, types.ErrSourceUnavailable).Once()
		inner.On("Load", mock.Anything).Return(records, nil).Once()

		src := NewCachedSource(inner, NewMemoryStore(time.Minute), nil, testLogger())

		_, err := src.Load(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrSourceUnavailable))

		got, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		inner.AssertNumberOfCalls(t, "Load", 2)
	})
}
