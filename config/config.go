package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Options is the mutable input used to build a ScanConfig.
// Empty slices fall back to the defaults.
type Options struct {
	Extensions       []string `yaml:"extensions"`
	SkipDirs         []string `yaml:"skip_dirs"`
	SkipFiles        []string `yaml:"skip_files"`
	MaxFileSizeBytes int64    `yaml:"max_file_size"`
	ExcludePatterns  []string `yaml:"exclude"`
	RespectGitignore bool     `yaml:"respect_gitignore"`
}

// ScanConfig holds the rules applied by a single scan.
// It is immutable once built; all name sets are stored lower-cased.
type ScanConfig struct {
	extensions       map[string]struct{}
	skipDirs         map[string]struct{}
	skipFiles        map[string]struct{}
	maxFileSizeBytes int64
	excludePatterns  []string
	respectGitignore bool
}

// Default returns the configuration the tool runs with when nothing is overridden.
func Default() *ScanConfig {
	cfg, _ := New(Options{})
	return cfg
}

// New validates options and builds an immutable ScanConfig.
func New(options Options) (*ScanConfig, error) {
	extensions := options.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	skipDirs := options.SkipDirs
	if len(skipDirs) == 0 {
		skipDirs = DefaultSkipDirs
	}
	skipFiles := options.SkipFiles
	if len(skipFiles) == 0 {
		skipFiles = DefaultSkipFiles
	}

	cfg := &ScanConfig{
		extensions:       make(map[string]struct{}, len(extensions)),
		skipDirs:         toLowerSet(skipDirs),
		skipFiles:        toLowerSet(skipFiles),
		maxFileSizeBytes: options.MaxFileSizeBytes,
		respectGitignore: options.RespectGitignore,
	}
	if cfg.maxFileSizeBytes <= 0 {
		cfg.maxFileSizeBytes = DefaultMaxFileSizeBytes
	}

	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.extensions[ext] = struct{}{}
	}

	for _, pattern := range options.ExcludePatterns {
		pattern = strings.ReplaceAll(strings.TrimSpace(pattern), "\\", "/")
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
		cfg.excludePatterns = append(cfg.excludePatterns, pattern)
	}

	return cfg, nil
}

// Load reads scan options from a YAML file.
// A missing file yields zero options (all defaults); a malformed file is an error.
func Load(path string) (Options, error) {
	var options Options

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return options, nil
	}
	if err != nil {
		return options, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &options); err != nil {
		return options, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return options, nil
}

// HasExtension reports whether ext (with leading dot) is in the inclusion set.
func (c *ScanConfig) HasExtension(ext string) bool {
	_, ok := c.extensions[strings.ToLower(ext)]
	return ok
}

// IsSkipDir reports whether a path component names a skipped directory.
func (c *ScanConfig) IsSkipDir(name string) bool {
	_, ok := c.skipDirs[strings.ToLower(name)]
	return ok
}

// IsSkipFile reports whether a file name is in the file skip-set.
func (c *ScanConfig) IsSkipFile(name string) bool {
	_, ok := c.skipFiles[strings.ToLower(name)]
	return ok
}

// MaxFileSizeBytes returns the size cap for a single file.
func (c *ScanConfig) MaxFileSizeBytes() int64 {
	return c.maxFileSizeBytes
}

// ExcludePatterns returns a copy of the doublestar exclude patterns.
func (c *ScanConfig) ExcludePatterns() []string {
	return append([]string(nil), c.excludePatterns...)
}

// RespectGitignore reports whether .gitignore and .contextignore rules apply.
func (c *ScanConfig) RespectGitignore() bool {
	return c.respectGitignore
}

// Extensions returns the inclusion set sorted alphabetically.
func (c *ScanConfig) Extensions() []string {
	result := make([]string, 0, len(c.extensions))
	for ext := range c.extensions {
		result = append(result, ext)
	}
	sort.Strings(result)
	return result
}

func toLowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
