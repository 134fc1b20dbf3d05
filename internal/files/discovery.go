package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"

	"postcodelookup/internal/config"
)

// SupportedExtensions are the table formats the loader can read.
var SupportedExtensions = []string{".csv", ".xlsx", ".xlsm"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	paths *config.Paths
}

// NewDiscovery creates a new file discovery instance. Relative patterns are
// resolved against the data directory.
func NewDiscovery(paths *config.Paths) *Discovery {
	return &Discovery{paths: paths}
}

// FindVariableFiles expands pattern and returns the matching table files in
// natural order of their names, so var2 sorts before var10. Directories and
// unsupported formats are skipped.
func (d *Discovery) FindVariableFiles(pattern string) ([]FileInfo, error) {
	searchPattern := pattern
	if d.paths != nil {
		searchPattern = d.paths.GetInputPath(pattern)
	}

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		if !IsSupported(match) {
			slog.Debug("Skipping unsupported file", slog.String("path", match))
			continue
		}
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return natural.Less(files[i].Path, files[j].Path)
	})

	slog.Debug("Discovered variable files",
		slog.String("pattern", searchPattern),
		slog.Int("count", len(files)))

	return files, nil
}

// ResolveInputs returns the full paths of the listed files, in the given
// order, when the list is non-empty; otherwise it expands the pattern.
func (d *Discovery) ResolveInputs(listed []string, pattern string) ([]string, error) {
	if len(listed) > 0 {
		out := make([]string, len(listed))
		for i, name := range listed {
			out[i] = name
			if d.paths != nil {
				out[i] = d.paths.GetInputPath(name)
			}
		}
		return out, nil
	}

	found, err := d.FindVariableFiles(pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.Path
	}
	return out, nil
}

// IsSupported reports whether path has a loadable table extension
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
