package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cgddrd/samsung-frame-art/pkg/tv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUploader is a mock implementation of Uploader.
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, data []byte, fileType tv.FileType, matte string) (string, error) {
	args := m.Called(ctx, data, fileType, matte)
	return args.String(0), args.Error(1)
}

func setupTracker(t *testing.T) (*Tracker, *Registry, *MockUploader, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := Load(filepath.Join(dir, "uploaded_files.json"))
	require.NoError(t, err)
	u := new(MockUploader)
	return NewTracker(r, u), r, u, dir
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestResolve_UploadsOnMissAndPersists(t *testing.T) {
	tracker, r, u, dir := setupTracker(t)
	img := filepath.Join(dir, "a.jpg")
	writeFile(t, img, []byte("jpeg bytes"))

	u.On("Upload", mock.Anything, []byte("jpeg bytes"), tv.JPEG, "modernthin_warm").Return("MY-F0001", nil).Once()

	id, uploaded, err := tracker.Resolve(context.Background(), img, "modernthin_warm")
	require.NoError(t, err)
	assert.True(t, uploaded)
	assert.Equal(t, "MY-F0001", id)

	// Persisted before Resolve returned.
	reloaded, err := Load(r.Path())
	require.NoError(t, err)
	got, ok := reloaded.Lookup(img)
	assert.True(t, ok)
	assert.Equal(t, "MY-F0001", got)

	// Second resolve is served from the registry.
	id, uploaded, err = tracker.Resolve(context.Background(), img, "none")
	require.NoError(t, err)
	assert.False(t, uploaded)
	assert.Equal(t, "MY-F0001", id)
	assert.Equal(t, 1, r.Len())

	u.AssertNumberOfCalls(t, "Upload", 1)
}

func TestResolve_FileTypes(t *testing.T) {
	tests := []struct {
		name string
		want tv.FileType
	}{
		{name: "photo.jpeg", want: tv.JPEG},
		{name: "photo.png", want: tv.PNG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, _, u, dir := setupTracker(t)
			img := filepath.Join(dir, tt.name)
			writeFile(t, img, []byte("x"))

			u.On("Upload", mock.Anything, mock.Anything, tt.want, "none").Return("ID", nil)

			_, _, err := tracker.Resolve(context.Background(), img, "none")
			require.NoError(t, err)
			u.AssertExpectations(t)
		})
	}
}

func TestResolve_UploadFailureAppendsNothing(t *testing.T) {
	tracker, r, u, dir := setupTracker(t)
	img := filepath.Join(dir, "b.png")
	writeFile(t, img, []byte("png bytes"))

	u.On("Upload", mock.Anything, mock.Anything, tv.PNG, "none").Return("", errors.New("socket closed"))

	_, uploaded, err := tracker.Resolve(context.Background(), img, "none")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Contains(t, err.Error(), "socket closed")
	assert.False(t, uploaded)
	assert.Equal(t, 0, r.Len())

	_, statErr := os.Stat(r.Path())
	assert.True(t, os.IsNotExist(statErr), "registry must not be written after a failed upload")
}

func TestResolve_EmptyContentID(t *testing.T) {
	tracker, r, u, dir := setupTracker(t)
	img := filepath.Join(dir, "c.jpg")
	writeFile(t, img, []byte("x"))

	u.On("Upload", mock.Anything, mock.Anything, tv.JPEG, "none").Return("", nil)

	_, _, err := tracker.Resolve(context.Background(), img, "none")
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, 0, r.Len())
}

func TestResolve_UnreadableFile(t *testing.T) {
	tracker, _, u, dir := setupTracker(t)

	_, _, err := tracker.Resolve(context.Background(), filepath.Join(dir, "gone.jpg"), "none")
	assert.Error(t, err)
	u.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
