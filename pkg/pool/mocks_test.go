package pool

import (
	"context"

	"github.com/cgddrd/samsung-frame-art/pkg/provider"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of provider.PhotoProvider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "Mock"
}

func (m *MockProvider) FetchRandomPhoto(ctx context.Context, collectionID string) (provider.Photo, error) {
	args := m.Called(ctx, collectionID)
	return args.Get(0).(provider.Photo), args.Error(1)
}

func (m *MockProvider) Download(ctx context.Context, photo provider.Photo) ([]byte, error) {
	args := m.Called(ctx, photo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// scriptedRand replays fixed draws.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) IntN(n int) int {
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i % n
}
