package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"

	"github.com/lexandro/codecontext/config"
	"github.com/lexandro/codecontext/language"
)

// IgnoreFileNames are the rule files read from the scan root when
// gitignore support is enabled.
var IgnoreFileNames = []string{".gitignore", ".contextignore"}

// Matcher decides whether a path under the scan root is skipped and whether
// a file qualifies for the snapshot. It combines the configured skip sets,
// doublestar exclude patterns, explicitly excluded files and, optionally,
// .gitignore/.contextignore rules.
// Thread-safe: Reload() acquires a write lock, the query methods a read lock.
type Matcher struct {
	mu           sync.RWMutex
	rootDir      string
	cfg          *config.ScanConfig
	patterns     []string
	excludeFiles map[string]struct{}
	ignoreFiles  []gitignore.GitIgnore
}

// MatcherOptions configures the matcher.
type MatcherOptions struct {
	RootDir string
	Config  *config.ScanConfig
	// ExcludeFiles are absolute paths that never qualify, such as the
	// snapshot file itself when it is written inside the root.
	ExcludeFiles []string
}

// NewMatcher creates a matcher for the given root.
func NewMatcher(options MatcherOptions) *Matcher {
	cfg := options.Config
	if cfg == nil {
		cfg = config.Default()
	}

	matcher := &Matcher{
		rootDir:      options.RootDir,
		cfg:          cfg,
		patterns:     cfg.ExcludePatterns(),
		excludeFiles: make(map[string]struct{}, len(options.ExcludeFiles)),
	}
	for _, path := range options.ExcludeFiles {
		matcher.excludeFiles[canonicalFilePath(path)] = struct{}{}
	}

	if cfg.RespectGitignore() {
		matcher.ignoreFiles = loadIgnoreFiles(options.RootDir)
	}
	return matcher
}

// Config returns the scan configuration the matcher applies.
func (m *Matcher) Config() *config.ScanConfig {
	return m.cfg
}

// ShouldSkip reports whether a directory or file is excluded. A skipped
// directory hides its whole subtree. The scan root itself is never skipped.
func (m *Matcher) ShouldSkip(absolutePath string, isDir bool) bool {
	relativePath := RelativePath(m.rootDir, absolutePath)
	if relativePath == "." || relativePath == "" {
		return false
	}

	for _, part := range strings.Split(relativePath, "/") {
		if m.cfg.IsSkipDir(part) {
			return true
		}
	}
	if m.cfg.IsSkipFile(filepath.Base(absolutePath)) {
		return true
	}

	if !isDir && len(m.excludeFiles) > 0 {
		if _, excluded := m.excludeFiles[canonicalFilePath(absolutePath)]; excluded {
			return true
		}
	}

	if m.matchesExcludePatterns(relativePath) {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rules := range m.ignoreFiles {
		match := rules.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}
	return false
}

// ShouldIgnoreDir reports whether a directory should be pruned from the walk.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	return m.ShouldSkip(absolutePath, true)
}

// ShouldIgnore reports whether a file is excluded by the skip rules.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	return m.ShouldSkip(absolutePath, false)
}

// Qualifies reports whether a file passes both the exclusion rules and the
// extension allow-list.
func (m *Matcher) Qualifies(absolutePath string) bool {
	if m.ShouldSkip(absolutePath, false) {
		return false
	}
	return m.cfg.HasExtension(language.Extension(absolutePath))
}

// IsFileTooLarge returns true if the file exceeds the configured size cap.
func (m *Matcher) IsFileTooLarge(fileSize int64) bool {
	return fileSize > m.cfg.MaxFileSizeBytes()
}

// Reload re-reads the ignore files from disk. It is a no-op when gitignore
// support is disabled.
func (m *Matcher) Reload() {
	if !m.cfg.RespectGitignore() {
		return
	}
	rules := loadIgnoreFiles(m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignoreFiles = rules
}

// IsIgnoreFile reports whether a path is one of the rule files that Reload reads.
func IsIgnoreFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range IgnoreFileNames {
		if base == name {
			return true
		}
	}
	return false
}

// RelativePath expresses path relative to root with forward slashes.
// When filepath.Rel cannot relate the two (different volumes, or a path that
// escapes the root) the root prefix is stripped textually instead.
func RelativePath(root string, path string) string {
	relativePath, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(relativePath, "..") {
		relativePath = strings.TrimPrefix(path, root)
		relativePath = strings.TrimLeft(relativePath, `\/`)
	}
	return filepath.ToSlash(relativePath)
}

// canonicalFilePath makes a file path absolute and resolves links in its
// directory so the same file compares equal however it was spelled. The file
// itself does not need to exist.
func canonicalFilePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	dir, base := filepath.Split(path)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(resolved, base)
	}
	return filepath.Clean(path)
}

func (m *Matcher) matchesExcludePatterns(relativePath string) bool {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.patterns {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

func loadIgnoreFiles(rootDir string) []gitignore.GitIgnore {
	var rules []gitignore.GitIgnore
	for _, name := range IgnoreFileNames {
		if gi := loadIgnoreFile(filepath.Join(rootDir, name), rootDir); gi != nil {
			rules = append(rules, gi)
		}
	}
	return rules
}

// loadIgnoreFile parses one ignore file. The handle is closed before
// returning so the file can be rewritten on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
