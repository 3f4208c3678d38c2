// Package pool decides where a run's candidate images come from and picks one of them.
package pool

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Strategy is how the candidate pool for a run was obtained.
type Strategy int

// Acquisition strategies.
const (
	StrategyStatic Strategy = iota
	StrategyDownload
)

func (s Strategy) String() string {
	switch s {
	case StrategyStatic:
		return "static"
	case StrategyDownload:
		return "download"
	}
	return "unknown"
}

// Rand is the randomness a run consumes. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// CandidateExts are the suffixes of files eligible for display. Matching is case sensitive.
var CandidateExts = []string{".jpg", ".jpeg", ".png"}

// IsCandidate reports whether name has a supported image suffix.
func IsCandidate(name string) bool {
	for _, ext := range CandidateExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// ScanCandidates walks dir recursively and returns every candidate image path in
// lexical order. Paths keep dir exactly as given, so "./frameart" yields
// "./frameart/x.png", matching registries written by earlier installs.
// A missing directory yields no candidates.
func ScanCandidates(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, os.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !IsCandidate(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, joinAsGiven(dir, rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// joinAsGiven appends rel to dir without cleaning dir.
func joinAsGiven(dir, rel string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + rel
	}
	return dir + string(filepath.Separator) + rel
}

// Pick chooses one candidate uniformly at random. ok is false when there is nothing to choose.
func Pick(candidates []string, rng Rand) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[rng.IntN(len(candidates))], true
}
