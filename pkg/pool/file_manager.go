package pool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileManager owns the scratch directory downloaded images are written to.
type FileManager struct {
	rootDir string
}

// NewFileManager creates a FileManager for rootDir.
func NewFileManager(rootDir string) *FileManager {
	return &FileManager{rootDir: rootDir}
}

// Dir returns the scratch directory.
func (fm *FileManager) Dir() string {
	return fm.rootDir
}

// Reset removes the scratch directory with everything in it and recreates it empty.
func (fm *FileManager) Reset() error {
	if err := os.RemoveAll(fm.rootDir); err != nil {
		return fmt.Errorf("failed to clear directory %s: %w", fm.rootDir, err)
	}
	if err := os.MkdirAll(fm.rootDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.rootDir, err)
	}
	return nil
}

// validateID ensures the ID does not contain path traversal characters.
func (fm *FileManager) validateID(id string) error {
	if id == "" || strings.Contains(id, "..") || strings.ContainsRune(id, filepath.Separator) {
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}

// ImagePath returns the path for image id with extension ext inside the scratch directory.
func (fm *FileManager) ImagePath(id, ext string) (string, error) {
	if err := fm.validateID(id); err != nil {
		return "", err
	}
	if strings.Contains(ext, "..") || strings.ContainsRune(ext, filepath.Separator) {
		return "", fmt.Errorf("invalid extension %q", ext)
	}
	return filepath.Join(fm.rootDir, id+ext), nil
}

// WriteImage stores data as id+ext and returns the path written.
func (fm *FileManager) WriteImage(id, ext string, data []byte) (string, error) {
	path, err := fm.ImagePath(id, ext)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
