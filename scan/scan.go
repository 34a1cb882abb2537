// Package scan walks a project tree and collects the text of every
// qualifying file in discovery order.
//
// A file qualifies when no component of its path below the root is a
// skipped directory name, its name is not a skipped file name, and its
// extension is in the configured allow-list. Read and decode failures are
// recorded as error entries and never stop the walk.
package scan

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexandro/codecontext/config"
	"github.com/lexandro/codecontext/ignore"
	"github.com/lexandro/codecontext/language"
)

// ErrFileTooLarge marks a qualifying file that exceeds the size cap.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// Entry is one qualifying file. Exactly one of Content or Err is meaningful.
type Entry struct {
	Path         string // absolute path
	RelativePath string // relative to the scan root, forward slashes
	Content      string
	Err          error
	Language     string
	SizeBytes    int64
	ModTime      time.Time
	LineCount    int
}

// OK reports whether the file was read and decoded.
func (e Entry) OK() bool {
	return e.Err == nil
}

// Result is the ordered outcome of one scan.
type Result struct {
	Root      string
	Entries   []Entry
	Processed int // entries without an error
}

// Failed returns the number of entries that could not be read.
func (r *Result) Failed() int {
	return len(r.Entries) - r.Processed
}

// TotalSizeBytes sums the sizes of the processed files.
func (r *Result) TotalSizeBytes() int64 {
	var total int64
	for _, entry := range r.Entries {
		if entry.OK() {
			total += entry.SizeBytes
		}
	}
	return total
}

// Options configures a scan. When Matcher is nil one is built from Config
// and ExcludeFiles.
type Options struct {
	Config       *config.ScanConfig
	ExcludeFiles []string
	Matcher      *ignore.Matcher
	// OnEntry is called for every entry right after it is recorded.
	OnEntry func(Entry)
	Logger  *slog.Logger
}

// ResolveRoot returns the absolute, symlink-free form of dir. If the links
// cannot be evaluated (for example the directory does not exist) the
// absolute path is returned unchanged.
func ResolveRoot(dir string) string {
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	resolved, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return absDir
	}
	return resolved
}

// Scan walks rootDir and returns every qualifying file. It always completes;
// unreadable directories are skipped and unreadable files become error
// entries.
func Scan(rootDir string, options Options) *Result {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	root := ResolveRoot(rootDir)
	matcher := options.Matcher
	if matcher == nil {
		matcher = ignore.NewMatcher(ignore.MatcherOptions{
			RootDir:      root,
			Config:       options.Config,
			ExcludeFiles: options.ExcludeFiles,
		})
	}
	cfg := matcher.Config()

	result := &Result{Root: root}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("walk error", "path", path, "error", err)
			return nil
		}
		if path == root {
			return nil
		}

		if d.IsDir() {
			if matcher.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.ShouldIgnore(path) {
			return nil
		}

		info, ok := regularFileInfo(path, d, logger)
		if !ok {
			return nil
		}
		if !cfg.HasExtension(language.Extension(path)) {
			return nil
		}

		entry := readEntry(path, ignore.RelativePath(root, path), info, matcher)
		if entry.OK() {
			result.Processed++
		} else {
			logger.Debug("unreadable file", "path", entry.RelativePath, "error", entry.Err)
		}
		result.Entries = append(result.Entries, entry)
		if options.OnEntry != nil {
			options.OnEntry(entry)
		}
		return nil
	})
	if walkErr != nil {
		logger.Warn("walk aborted", "root", root, "error", walkErr)
	}

	logger.Debug("scan complete",
		"root", root,
		"entries", len(result.Entries),
		"processed", result.Processed,
	)
	return result
}

// regularFileInfo returns the info of a regular file, following a symbolic
// link to its target. Links to directories are not descended.
func regularFileInfo(path string, d fs.DirEntry, logger *slog.Logger) (fs.FileInfo, bool) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			logger.Debug("broken symlink", "path", path, "error", err)
			return nil, false
		}
		if !info.Mode().IsRegular() {
			return nil, false
		}
		return info, true
	}
	if !d.Type().IsRegular() {
		return nil, false
	}
	info, err := d.Info()
	if err != nil {
		logger.Debug("stat failed", "path", path, "error", err)
		return nil, false
	}
	return info, true
}

func readEntry(path string, relativePath string, info fs.FileInfo, matcher *ignore.Matcher) Entry {
	entry := Entry{
		Path:         path,
		RelativePath: relativePath,
		Language:     language.DetectLanguage(path),
		SizeBytes:    info.Size(),
		ModTime:      info.ModTime(),
	}

	if matcher.IsFileTooLarge(info.Size()) {
		entry.Err = fmt.Errorf("%w: %d bytes (limit %d)",
			ErrFileTooLarge, info.Size(), matcher.Config().MaxFileSizeBytes())
		return entry
	}

	data, err := os.ReadFile(path)
	if err != nil {
		entry.Err = err
		return entry
	}
	content, err := language.DecodeText(data)
	if err != nil {
		entry.Err = err
		return entry
	}

	entry.Content = content
	entry.LineCount = strings.Count(content, "\n") + 1
	return entry
}
