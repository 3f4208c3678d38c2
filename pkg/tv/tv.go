// Package tv defines the art-mode TV contract used by a run and the
// wake-on-LAN helper that brings the TV out of standby.
package tv

import (
	"context"
	"fmt"
	"strings"
)

// FileType is the image container declared to the TV on upload.
type FileType string

// Supported upload file types.
const (
	JPEG FileType = "JPEG"
	PNG  FileType = "PNG"
)

// WireName is the lower case token the art channel expects ("jpg" or "png").
func (f FileType) WireName() string {
	if f == JPEG {
		return "jpg"
	}
	return strings.ToLower(string(f))
}

// FileTypeFor derives the upload file type from a path's extension.
func FileTypeFor(path string) (FileType, error) {
	switch {
	case strings.HasSuffix(path, ".jpg"), strings.HasSuffix(path, ".jpeg"):
		return JPEG, nil
	case strings.HasSuffix(path, ".png"):
		return PNG, nil
	}
	return "", fmt.Errorf("unsupported image type: %s", path)
}

// DeviceInfo is the subset of the TV's REST device description a run cares about.
type DeviceInfo struct {
	ID             string
	Name           string
	ModelName      string
	PowerState     string
	FrameTVSupport bool
	Raw            map[string]any
}

// ArtTV is the control surface of an art-mode capable TV.
type ArtTV interface {
	DeviceInfo(ctx context.Context) (DeviceInfo, error)
	ArtModeSupported(ctx context.Context) (bool, error)
	ArtModeActive(ctx context.Context) (bool, error)
	IsOn(ctx context.Context) bool
	CurrentArtwork(ctx context.Context) (map[string]any, error)
	MatteList(ctx context.Context) ([]map[string]any, error)
	FilterList(ctx context.Context) ([]map[string]any, error)
	Upload(ctx context.Context, data []byte, fileType FileType, matte string) (string, error)
	Select(ctx context.Context, contentID string, show bool) error
	Close() error
}

// ReachabilityError reports that the TV's control API could not be reached.
type ReachabilityError struct {
	Addr string
	Err  error
}

func (e *ReachabilityError) Error() string {
	return fmt.Sprintf("could not reach the TV at %s: %v", e.Addr, e.Err)
}

func (e *ReachabilityError) Unwrap() error {
	return e.Err
}
