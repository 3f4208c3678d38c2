package pool

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cgddrd/samsung-frame-art/config"
	"github.com/cgddrd/samsung-frame-art/pkg/artwork"
	"github.com/cgddrd/samsung-frame-art/pkg/provider"
	"github.com/cgddrd/samsung-frame-art/pkg/provider/unsplash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCollections = []string{"8262542", "879220", "1976117"}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 10, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestAcquirer(t *testing.T, p *MockProvider, rng Rand) (*Acquirer, string, string) {
	t.Helper()
	base := t.TempDir()
	static := filepath.Join(base, "frameart")
	download := filepath.Join(base, "downloaded")
	proc := artwork.NewProcessorWithSize(64, 36, config.CropCenter)

	a := NewAcquirer(p, proc, static, download, testCollections, rng)
	a.now = func() time.Time { return time.Unix(1700000000, 0) }
	return a, static, download
}

func TestAcquire_Static(t *testing.T) {
	p := new(MockProvider)
	a, static, _ := newTestAcquirer(t, p, &scriptedRand{floats: []float64{0.5}})

	dir, strategy := a.Acquire(context.Background())
	assert.Equal(t, static, dir)
	assert.Equal(t, StrategyStatic, strategy)
	p.AssertNotCalled(t, "FetchRandomPhoto", mock.Anything, mock.Anything)
}

func TestAcquire_Download(t *testing.T) {
	p := new(MockProvider)
	a, _, download := newTestAcquirer(t, p, &scriptedRand{floats: []float64{0.49}, ints: []int{2}})

	touch(t, filepath.Join(download, "stale.jpg"))

	photo := provider.Photo{ID: "abc", URL: "https://images.example/abc", Attribution: "Susan"}
	p.On("FetchRandomPhoto", mock.Anything, "1976117").Return(photo, nil)
	p.On("Download", mock.Anything, photo).Return(pngBytes(t, 40, 30), nil)

	dir, strategy := a.Acquire(context.Background())
	assert.Equal(t, download, dir)
	assert.Equal(t, StrategyDownload, strategy)
	p.AssertExpectations(t)

	files, err := ScanCandidates(dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(download, "iotd1700000000.jpg")}, files)

	f, err := os.Open(files[0])
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 36, cfg.Height)
}

func TestAcquire_ProviderFailure(t *testing.T) {
	p := new(MockProvider)
	a, _, download := newTestAcquirer(t, p, &scriptedRand{floats: []float64{0.1}, ints: []int{0}})

	touch(t, filepath.Join(download, "stale.jpg"))
	p.On("FetchRandomPhoto", mock.Anything, "8262542").
		Return(provider.Photo{}, fmt.Errorf("%w: status 403", provider.ErrProviderRequestFailed))

	dir, strategy := a.Acquire(context.Background())
	assert.Equal(t, download, dir)
	assert.Equal(t, StrategyDownload, strategy)

	files, err := ScanCandidates(dir)
	require.NoError(t, err)
	assert.Empty(t, files, "failed download leaves an empty scratch pool")
	p.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
}

func TestDownload_UndecodablePayload(t *testing.T) {
	p := new(MockProvider)
	a, _, _ := newTestAcquirer(t, p, &scriptedRand{ints: []int{1}})

	photo := provider.Photo{ID: "bad"}
	p.On("FetchRandomPhoto", mock.Anything, "879220").Return(photo, nil)
	p.On("Download", mock.Anything, photo).Return([]byte("<html>rate limited</html>"), nil)

	_, err := a.Download(context.Background())
	assert.Error(t, err)
}

func TestAcquire_UnsplashForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["OAuth error: The access token is invalid"]}`, http.StatusForbidden)
	}))
	defer srv.Close()

	p := unsplash.NewUnsplashProvider("bad-key", srv.Client())
	p.SetBaseURLForTesting(srv.URL)

	base := t.TempDir()
	download := filepath.Join(base, "downloaded")
	rng := &scriptedRand{floats: []float64{0.0}, ints: []int{4, 4}}
	a := NewAcquirer(p, artwork.NewProcessorWithSize(64, 36, config.CropCenter),
		filepath.Join(base, "frameart"), download, unsplash.Collections, rng)

	_, err := a.Download(context.Background())
	assert.ErrorIs(t, err, provider.ErrProviderRequestFailed)

	touch(t, filepath.Join(download, "stale.jpg"))
	dir, strategy := a.Acquire(context.Background())
	assert.Equal(t, StrategyDownload, strategy)

	files, err := ScanCandidates(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}
