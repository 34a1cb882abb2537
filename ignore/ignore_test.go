package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/codecontext/config"
)

func newTestMatcher(t *testing.T, rootDir string, options config.Options) *Matcher {
	t.Helper()
	cfg, err := config.New(options)
	require.NoError(t, err)
	return NewMatcher(MatcherOptions{RootDir: rootDir, Config: cfg})
}

func Test_Matcher_SkipDirComponentHidesDescendants(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := newTestMatcher(t, tmpDir, config.Options{})

	tests := []struct {
		path    string
		skipped bool
	}{
		{filepath.Join(tmpDir, "node_modules", "express", "index.js"), true},
		{filepath.Join(tmpDir, "src", "Build", "out.py"), true},
		{filepath.Join(tmpDir, ".GIT", "config"), true},
		{filepath.Join(tmpDir, "src", "app.py"), false},
		{filepath.Join(tmpDir, "builder", "app.py"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.skipped, matcher.ShouldIgnore(tt.path), tt.path)
	}
}

func Test_Matcher_SkipFileIsCaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := newTestMatcher(t, tmpDir, config.Options{})

	assert.True(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "Package-Lock.JSON")))
	assert.True(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "web", "package-lock.json")))
	assert.False(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "package.json")))
}

func Test_Matcher_FileNamedLikeSkipDirIsSkipped(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := newTestMatcher(t, tmpDir, config.Options{})

	assert.True(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "dist")))
}

func Test_Matcher_RootIsNeverSkipped(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	matcher := newTestMatcher(t, root, config.Options{})

	assert.False(t, matcher.ShouldIgnoreDir(root))
	assert.False(t, matcher.ShouldIgnore(filepath.Join(root, "main.py")),
		"components above the root do not count")
}

func Test_Matcher_Qualifies(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := newTestMatcher(t, tmpDir, config.Options{})

	assert.True(t, matcher.Qualifies(filepath.Join(tmpDir, "a.py")))
	assert.True(t, matcher.Qualifies(filepath.Join(tmpDir, "README.MD")))
	assert.False(t, matcher.Qualifies(filepath.Join(tmpDir, "main.go")))
	assert.False(t, matcher.Qualifies(filepath.Join(tmpDir, "Makefile")))
	assert.False(t, matcher.Qualifies(filepath.Join(tmpDir, ".txt")), "dot-only names have no extension")
	assert.False(t, matcher.Qualifies(filepath.Join(tmpDir, "venv", "lib.py")))
}

func Test_Matcher_ExcludePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := newTestMatcher(t, tmpDir, config.Options{
		ExcludePatterns: []string{"docs/**", "*.min.js"},
	})

	assert.True(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "docs", "guide", "intro.md")))
	assert.True(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "web", "app.min.js")))
	assert.False(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "web", "app.js")))
}

func Test_Matcher_ExcludeFiles(t *testing.T) {
	tmpDir := t.TempDir()
	output := filepath.Join(tmpDir, "project_context.txt")
	matcher := NewMatcher(MatcherOptions{
		RootDir:      tmpDir,
		Config:       config.Default(),
		ExcludeFiles: []string{output},
	})

	assert.False(t, matcher.Qualifies(output))
	assert.True(t, matcher.Qualifies(filepath.Join(tmpDir, "notes.txt")))
}

func Test_Matcher_GitignoreOnlyWhenEnabled(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("*.generated.ts\nsecret/\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".contextignore"), []byte("*.draft.md\n"), 0644))

	generated := filepath.Join(tmpDir, "models.generated.ts")
	draft := filepath.Join(tmpDir, "notes.draft.md")

	disabled := newTestMatcher(t, tmpDir, config.Options{})
	assert.False(t, disabled.ShouldIgnore(generated))
	assert.False(t, disabled.ShouldIgnore(draft))

	enabled := newTestMatcher(t, tmpDir, config.Options{RespectGitignore: true})
	assert.True(t, enabled.ShouldIgnore(generated))
	assert.True(t, enabled.ShouldIgnore(draft))
	assert.True(t, enabled.ShouldIgnoreDir(filepath.Join(tmpDir, "secret")))
	assert.False(t, enabled.ShouldIgnore(filepath.Join(tmpDir, "main.ts")))
}

func Test_Matcher_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := newTestMatcher(t, tmpDir, config.Options{RespectGitignore: true})
	target := filepath.Join(tmpDir, "scratch.txt")
	require.False(t, matcher.ShouldIgnore(target))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("scratch.txt\n"), 0644))
	matcher.Reload()

	assert.True(t, matcher.ShouldIgnore(target))
}

func Test_Matcher_FileSizeLimit(t *testing.T) {
	matcher := newTestMatcher(t, t.TempDir(), config.Options{MaxFileSizeBytes: 1024})

	assert.True(t, matcher.IsFileTooLarge(2048))
	assert.False(t, matcher.IsFileTooLarge(1024))
}

func Test_RelativePath(t *testing.T) {
	root := filepath.Join(t.TempDir(), "project")

	assert.Equal(t, "src/app.py", RelativePath(root, filepath.Join(root, "src", "app.py")))
	assert.Equal(t, ".", RelativePath(root, root))
}

func Test_IsIgnoreFile(t *testing.T) {
	assert.True(t, IsIgnoreFile("/repo/.gitignore"))
	assert.True(t, IsIgnoreFile(".contextignore"))
	assert.False(t, IsIgnoreFile("/repo/ignore.txt"))
}
