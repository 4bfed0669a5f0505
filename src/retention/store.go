package retention

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// artifactFileRe matches "{base}_{NN}.{apk|aab|ipa}".
	artifactFileRe = regexp.MustCompile(`_\d{2,}\.(apk|aab|ipa)$`)
	// projectDirRe matches exported Xcode project directories "{base}_{NN}".
	projectDirRe = regexp.MustCompile(`_\d{2,}$`)
)

// DirStore exposes the artifacts in one output directory. Files named like
// artifacts and exported Xcode project directories are listed; anything
// else in the directory is invisible to retention.
type DirStore struct {
	Dir string
}

// List returns the directory's artifacts with their modification times.
func (s DirStore) List(_ context.Context) ([]Item, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.Dir, err)
	}

	var items []Item
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir() && projectDirRe.MatchString(name) && s.isXcodeProject(name):
		case !e.IsDir() && artifactFileRe.MatchString(name):
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		size := info.Size()
		if e.IsDir() {
			size = dirSize(filepath.Join(s.Dir, name))
		}
		items = append(items, Item{Name: name, CreatedAt: info.ModTime(), Size: size})
	}
	return items, nil
}

// Delete removes one artifact. Names with path separators are rejected.
func (s DirStore) Delete(_ context.Context, name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("refusing to delete %q", name)
	}
	return os.RemoveAll(filepath.Join(s.Dir, name))
}

func (s DirStore) isXcodeProject(name string) bool {
	entries, err := os.ReadDir(filepath.Join(s.Dir, name))
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), ".xcodeproj") {
			return true
		}
	}
	return false
}

func dirSize(path string) int64 {
	var total int64
	_ = filepath.Walk(path, func(_ string, fi os.FileInfo, err error) error {
		if err == nil && !fi.IsDir() {
			total += fi.Size()
		}
		return nil
	})
	return total
}
