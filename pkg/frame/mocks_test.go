package frame

import (
	"context"

	"github.com/cgddrd/samsung-frame-art/pkg/pool"
	"github.com/cgddrd/samsung-frame-art/pkg/tv"
	"github.com/stretchr/testify/mock"
)

// MockTV is a mock implementation of tv.ArtTV.
type MockTV struct {
	mock.Mock
}

func (m *MockTV) DeviceInfo(ctx context.Context) (tv.DeviceInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(tv.DeviceInfo), args.Error(1)
}

func (m *MockTV) ArtModeSupported(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockTV) ArtModeActive(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockTV) IsOn(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockTV) CurrentArtwork(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockTV) MatteList(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *MockTV) FilterList(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *MockTV) Upload(ctx context.Context, data []byte, fileType tv.FileType, matte string) (string, error) {
	args := m.Called(ctx, data, fileType, matte)
	return args.String(0), args.Error(1)
}

func (m *MockTV) Select(ctx context.Context, contentID string, show bool) error {
	args := m.Called(ctx, contentID, show)
	return args.Error(0)
}

func (m *MockTV) Close() error {
	return nil
}

// MockPool is a mock implementation of PoolSource.
type MockPool struct {
	mock.Mock
}

func (m *MockPool) Acquire(ctx context.Context) (string, pool.Strategy) {
	args := m.Called(ctx)
	return args.String(0), args.Get(1).(pool.Strategy)
}

// firstRand always picks index 0 and never asks for a download.
type firstRand struct{}

func (firstRand) Float64() float64 { return 0.99 }
func (firstRand) IntN(int) int     { return 0 }
