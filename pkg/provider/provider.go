package provider

import (
	"context"
	"errors"
)

// ErrProviderRequestFailed is returned when a photo provider answers with a non-success
// status or a payload we cannot use. Callers treat it as "no image produced".
var ErrProviderRequestFailed = errors.New("provider request failed")

// Photo represents one photo offered by a provider.
type Photo struct {
	ID          string
	URL         string // URL of the full size image
	ViewURL     string // URL to view the photo in a browser
	Attribution string // Photographer name
	Provider    string // Source provider name
}

// PhotoProvider defines the interface for a stock photo service.
type PhotoProvider interface {
	// Name returns the provider name.
	Name() string
	// FetchRandomPhoto asks the provider for one random landscape photo from the given collection.
	FetchRandomPhoto(ctx context.Context, collectionID string) (Photo, error)
	// Download fetches the image bytes of a photo.
	Download(ctx context.Context, photo Photo) ([]byte, error)
}
