// Package registry remembers which local images already live on the TV.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Record maps a local image path to the content id the TV assigned on upload.
type Record struct {
	File           string `json:"file"`
	RemoteFilename string `json:"remote_filename"`
}

// Registry is the persisted list of uploads. Records are only ever appended.
type Registry struct {
	mu      sync.RWMutex
	path    string
	records []Record
}

// Load reads the registry stored at path. A missing or empty file is an empty registry.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path, records: []Record{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("reading upload registry: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return r, nil
	}

	if err := json.Unmarshal(data, &r.records); err != nil {
		return nil, fmt.Errorf("decoding upload registry %s: %w", path, err)
	}
	if r.records == nil {
		r.records = []Record{}
	}
	return r, nil
}

// Path returns where the registry is persisted.
func (r *Registry) Path() string {
	return r.path
}

// Lookup returns the remote id of the first record for file. Paths are compared
// after filepath.Clean, so "./frameart/x.png" and "frameart/x.png" match.
func (r *Registry) Lookup(file string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := filepath.Clean(file)
	for _, rec := range r.records {
		if filepath.Clean(rec.File) == want {
			return rec.RemoteFilename, true
		}
	}
	return "", false
}

// Add appends a record in memory. Call Save to persist it.
func (r *Registry) Add(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// Records returns a copy of all records in storage order.
func (r *Registry) Records() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Save overwrites the stored registry with the in-memory one. The file is
// replaced by rename so a crash never leaves half a document behind.
func (r *Registry) Save() error {
	snapshot := r.Records()

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating registry directory: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("saving upload registry: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding upload registry: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("saving upload registry: %w", err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replacing upload registry: %w", err)
	}
	return nil
}
