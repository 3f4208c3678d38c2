package registry

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cgddrd/samsung-frame-art/pkg/tv"
	"github.com/cgddrd/samsung-frame-art/util/log"
)

// ErrUploadFailed is returned when the TV rejects or cannot process an upload.
var ErrUploadFailed = errors.New("upload failed")

// Uploader sends image bytes to the TV and returns the id it stored them under.
type Uploader interface {
	Upload(ctx context.Context, data []byte, fileType tv.FileType, matte string) (string, error)
}

// Tracker resolves local images to remote ids, uploading only what the registry has not seen.
type Tracker struct {
	registry *Registry
	uploader Uploader
}

// NewTracker creates a Tracker.
func NewTracker(r *Registry, u Uploader) *Tracker {
	return &Tracker{registry: r, uploader: u}
}

// Resolve returns the remote id for path. A registry hit costs no network call.
// On a miss the file is uploaded with the given matte, recorded and the registry
// saved before Resolve returns. uploaded reports whether an upload happened.
func (t *Tracker) Resolve(ctx context.Context, path, matte string) (remoteID string, uploaded bool, err error) {
	if id, ok := t.registry.Lookup(path); ok {
		log.Printf("Image already uploaded as %s.", id)
		return id, false, nil
	}

	fileType, err := tv.FileTypeFor(path)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}

	log.Printf("Uploading new image: %s", path)
	id, err := t.uploader.Upload(ctx, data, fileType, matte)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %w", ErrUploadFailed, path, err)
	}
	if id == "" {
		return "", false, fmt.Errorf("%w: %s: TV returned no content id", ErrUploadFailed, path)
	}

	t.registry.Add(Record{File: path, RemoteFilename: id})
	if err := t.registry.Save(); err != nil {
		return id, true, err
	}
	log.Debugf("Recorded %s as %s in %s", path, id, t.registry.Path())
	return id, true, nil
}
