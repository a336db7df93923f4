package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// Source is one discovered source document.
type Source struct {
	Path       string
	Identifier string // file name without extension
	ModTime    time.Time
}

// Scanner discovers source documents below a directory.
type Scanner interface {
	Scan(rootDir, extension string, excludes []string) ([]Source, error)
}

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// Scan walks rootDir and returns the documents with the given extension,
// sorted by identifier, skipping paths that match any exclude glob.
func (s *FileScanner) Scan(rootDir, extension string, excludes []string) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			relPath = path
		}

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if !s.Recursive || isExcluded(relPath, excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), extension) || isExcluded(relPath, excludes) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		sources = append(sources, Source{
			Path:       path,
			Identifier: strings.TrimSuffix(d.Name(), extension),
			ModTime:    info.ModTime(),
		})
		return nil
	})

	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "failed to scan directory", err)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Identifier < sources[j].Identifier
	})
	return sources, nil
}

func isExcluded(relPath string, excludes []string) bool {
	for _, exc := range excludes {
		if matchGlob(relPath, exc) {
			return true
		}
	}
	return false
}

// matchGlob matches a path against a glob pattern, supporting ** for recursive matching.
func matchGlob(path, pattern string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], string(filepath.Separator))
		suffix := strings.TrimPrefix(parts[1], string(filepath.Separator))

		if prefix != "" {
			if !strings.HasPrefix(path, prefix) {
				return false
			}
			path = strings.TrimPrefix(path, prefix)
			path = strings.TrimPrefix(path, string(filepath.Separator))
		}

		if suffix == "" {
			return true
		}

		// Try matching suffix against each possible subpath
		pathParts := strings.Split(path, string(filepath.Separator))
		for i := range pathParts {
			subPath := strings.Join(pathParts[i:], string(filepath.Separator))
			if matched, _ := filepath.Match(suffix, subPath); matched {
				return true
			}
		}
		return false
	}

	if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}
