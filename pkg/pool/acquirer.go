package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/cgddrd/samsung-frame-art/pkg/artwork"
	"github.com/cgddrd/samsung-frame-art/pkg/provider"
	"github.com/cgddrd/samsung-frame-art/util/log"
)

// DownloadProbability is the chance a run fetches a fresh photo instead of using the static pool.
const DownloadProbability = 0.5

// Acquirer produces the directory a run draws its candidates from.
type Acquirer struct {
	provider    provider.PhotoProvider
	processor   *artwork.Processor
	files       *FileManager
	staticDir   string
	collections []string
	rand        Rand
	now         func() time.Time
}

// NewAcquirer creates an Acquirer. Downloaded photos land in downloadDir, the
// curated pool lives in staticDir.
func NewAcquirer(p provider.PhotoProvider, proc *artwork.Processor, staticDir, downloadDir string, collections []string, rng Rand) *Acquirer {
	return &Acquirer{
		provider:    p,
		processor:   proc,
		files:       NewFileManager(downloadDir),
		staticDir:   staticDir,
		collections: collections,
		rand:        rng,
		now:         time.Now,
	}
}

// Acquire flips the strategy coin and returns the pool directory for this run.
// A failed download is logged and the scratch directory is still returned, possibly empty.
func (a *Acquirer) Acquire(ctx context.Context) (string, Strategy) {
	if a.rand.Float64() >= DownloadProbability {
		log.Debugf("Using static pool %s", a.staticDir)
		return a.staticDir, StrategyStatic
	}

	if _, err := a.Download(ctx); err != nil {
		log.Printf("Error fetching photo from %s: %v", a.provider.Name(), err)
	}
	return a.files.Dir(), StrategyDownload
}

// Download clears the scratch directory and fills it with one fresh photo, fitted
// to the TV canvas and saved as iotd<unix seconds>.jpg.
func (a *Acquirer) Download(ctx context.Context) (string, error) {
	if err := a.files.Reset(); err != nil {
		return "", err
	}
	if len(a.collections) == 0 {
		return "", fmt.Errorf("no collections configured")
	}

	collection := a.collections[a.rand.IntN(len(a.collections))]
	log.Debugf("Fetching random photo from collection %s", collection)

	photo, err := a.provider.FetchRandomPhoto(ctx, collection)
	if err != nil {
		return "", err
	}

	raw, err := a.provider.Download(ctx, photo)
	if err != nil {
		return "", err
	}

	img, format, err := a.processor.DecodeImage(ctx, raw)
	if err != nil {
		return "", err
	}
	log.Debugf("Decoded %s photo %s (%dx%d)", format, photo.ID, img.Bounds().Dx(), img.Bounds().Dy())

	fitted, err := a.processor.FitImage(ctx, img)
	if err != nil {
		return "", fmt.Errorf("fitting photo %s: %w", photo.ID, err)
	}

	data, err := a.processor.EncodeJPEG(ctx, fitted)
	if err != nil {
		return "", err
	}

	path, err := a.files.WriteImage(fmt.Sprintf("iotd%d", a.now().Unix()), ".jpg", data)
	if err != nil {
		return "", err
	}

	if photo.Attribution != "" {
		log.Printf("Downloaded and processed: %s (photo by %s, %s)", path, photo.Attribution, photo.ViewURL)
	} else {
		log.Printf("Downloaded and processed: %s", path)
	}
	return path, nil
}
