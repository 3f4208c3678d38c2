package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cgddrd/samsung-frame-art/pkg/provider"
	"github.com/cgddrd/samsung-frame-art/util/log"
)

// UnsplashProvider implements provider.PhotoProvider for Unsplash.
type UnsplashProvider struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

// NewUnsplashProvider creates a new UnsplashProvider authenticating with the given access key.
func NewUnsplashProvider(accessKey string, client *http.Client) *UnsplashProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &UnsplashProvider{
		accessKey:  accessKey,
		baseURL:    UnsplashAPIURL,
		httpClient: client,
	}
}

// SetBaseURLForTesting points the provider at a fake API server.
func (p *UnsplashProvider) SetBaseURLForTesting(baseURL string) {
	p.baseURL = strings.TrimRight(baseURL, "/")
}

// Name returns the provider name.
func (p *UnsplashProvider) Name() string {
	return "Unsplash"
}

// FetchRandomPhoto asks Unsplash for exactly one random landscape photo from collectionID.
func (p *UnsplashProvider) FetchRandomPhoto(ctx context.Context, collectionID string) (provider.Photo, error) {
	u, err := url.Parse(p.baseURL + UnsplashRandomPath)
	if err != nil {
		return provider.Photo{}, fmt.Errorf("invalid API URL: %w", err)
	}

	q := u.Query()
	q.Set("count", "1")
	q.Set("orientation", UnsplashOrientation)
	q.Set("collections", collectionID)
	u.RawQuery = q.Encode()

	log.Debugf("Fetching random Unsplash photo from: %s", u.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return provider.Photo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+p.accessKey)
	req.Header.Set("Accept-Version", UnsplashAPIVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return provider.Photo{}, fmt.Errorf("%w: request failed: %w", provider.ErrProviderRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return provider.Photo{}, fmt.Errorf("%w: reading response: %w", provider.ErrProviderRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return provider.Photo{}, fmt.Errorf("%w: api returned status %d: %s", provider.ErrProviderRequestFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// With count set the API always answers with a list, even for a single photo.
	var photos []UnsplashImage
	if err := json.Unmarshal(body, &photos); err != nil {
		return provider.Photo{}, fmt.Errorf("%w: unexpected payload: %w", provider.ErrProviderRequestFailed, err)
	}
	if len(photos) == 0 {
		return provider.Photo{}, fmt.Errorf("%w: api returned no photos", provider.ErrProviderRequestFailed)
	}
	if photos[0].URLs.Full == "" {
		return provider.Photo{}, fmt.Errorf("%w: photo %s has no full size URL", provider.ErrProviderRequestFailed, photos[0].ID)
	}

	photo := p.mapUnsplashImage(photos[0])
	log.Debugf("Unsplash picked photo %s by %s", photo.ID, photo.Attribution)
	return photo, nil
}

// Download fetches the full size image bytes of photo.
func (p *UnsplashProvider) Download(ctx context.Context, photo provider.Photo) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photo.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: downloading %s: %w", provider.ErrProviderRequestFailed, photo.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: downloading %s: status %d", provider.ErrProviderRequestFailed, photo.ID, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", provider.ErrProviderRequestFailed, photo.ID, err)
	}
	return data, nil
}

func (p *UnsplashProvider) mapUnsplashImage(ui UnsplashImage) provider.Photo {
	return provider.Photo{
		ID:          ui.ID,
		URL:         ui.URLs.Full, // Use full resolution
		ViewURL:     ui.Links.HTML,
		Attribution: ui.User.Name,
		Provider:    p.Name(),
	}
}

// Unsplash JSON structures

type UnsplashImage struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URLs   URLs   `json:"urls"`
	Links  Links  `json:"links"`
	User   User   `json:"user"`
}

type URLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

type Links struct {
	Self             string `json:"self"`
	HTML             string `json:"html"`
	Download         string `json:"download"`
	DownloadLocation string `json:"download_location"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
