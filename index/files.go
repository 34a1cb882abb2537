package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxResults caps glob and content searches when no limit is given.
const DefaultMaxResults = 50

// IndexedFile describes one qualifying file from the last scan.
type IndexedFile struct {
	Path         string    // Absolute file path
	RelativePath string    // Path relative to project root (forward slashes)
	Language     string    // Detected programming language
	SizeBytes    int64     // File size in bytes
	ModTime      time.Time // Last modification time
	LineCount    int       // Number of lines in the file
}

// FileIndex holds the files of the last scan for glob lookups.
type FileIndex struct {
	mu          sync.RWMutex
	files       map[string]*IndexedFile // key: relative path (forward slashes)
	sortedPaths []string
}

// NewFileIndex creates a new empty file path index.
func NewFileIndex() *FileIndex {
	return &FileIndex{
		files: make(map[string]*IndexedFile),
	}
}

// Replace swaps the whole index for the given files.
func (fi *FileIndex) Replace(files []*IndexedFile) {
	byPath := make(map[string]*IndexedFile, len(files))
	paths := make([]string, 0, len(files))
	for _, file := range files {
		if _, dup := byPath[file.RelativePath]; !dup {
			paths = append(paths, file.RelativePath)
		}
		byPath[file.RelativePath] = file
	}
	sort.Strings(paths)

	fi.mu.Lock()
	defer fi.mu.Unlock()
	fi.files = byPath
	fi.sortedPaths = paths
}

// GetFile returns the IndexedFile for a given relative path, or nil if not found.
func (fi *FileIndex) GetFile(relativePath string) *IndexedFile {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return fi.files[strings.ReplaceAll(relativePath, "\\", "/")]
}

// FileCount returns the number of indexed files.
func (fi *FileIndex) FileCount() int {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return len(fi.files)
}

// TotalSizeBytes returns the total size of all indexed files.
func (fi *FileIndex) TotalSizeBytes() int64 {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	var totalSize int64
	for _, file := range fi.files {
		totalSize += file.SizeBytes
	}
	return totalSize
}

// LanguageCounts returns a map of language -> file count for all indexed files.
func (fi *FileIndex) LanguageCounts() map[string]int {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	counts := make(map[string]int)
	for _, file := range fi.files {
		counts[file.Language]++
	}
	return counts
}

// SearchByGlob returns files whose relative path matches a doublestar
// pattern, in path order. The second result is the total number of matches
// before truncation to maxResults.
func (fi *FileIndex) SearchByGlob(pattern string, maxResults int) ([]*IndexedFile, int, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, 0, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	fi.mu.RLock()
	defer fi.mu.RUnlock()

	var results []*IndexedFile
	total := 0
	for _, path := range fi.sortedPaths {
		if !doublestar.MatchUnvalidated(pattern, path) {
			continue
		}
		total++
		if len(results) < maxResults {
			results = append(results, fi.files[path])
		}
	}
	return results, total, nil
}

// AllFiles returns all indexed files in path order.
func (fi *FileIndex) AllFiles() []*IndexedFile {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	result := make([]*IndexedFile, 0, len(fi.sortedPaths))
	for _, path := range fi.sortedPaths {
		result = append(result, fi.files[path])
	}
	return result
}
