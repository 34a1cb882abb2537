package index

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/codecontext/scan"
)

func newTestContentIndex(t *testing.T, docs ...Document) *ContentIndex {
	t.Helper()
	ci, err := NewContentIndex()
	require.NoError(t, err)
	t.Cleanup(func() { ci.Close() })
	require.NoError(t, ci.Replace(docs))
	return ci
}

const mainGo = `package main

import "fmt"

func main() {
	fmt.Println("hello world")
}`

func Test_ContentIndex_WordSearch(t *testing.T) {
	ci := newTestContentIndex(t,
		Document{RelativePath: "main.go", Content: mainGo, Language: "Go"},
		Document{RelativePath: "notes.md", Content: "nothing here", Language: "Markdown"},
	)

	results, totalMatches, err := ci.Search(SearchOptions{Query: "hello"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "main.go", results[0].RelativePath)
	assert.Equal(t, 1, totalMatches)
	assert.Equal(t, 6, results[0].Matches[0].LineNumber)
	assert.Equal(t, "\tfmt.Println(\"hello world\")", results[0].Matches[0].LineText)
}

func Test_ContentIndex_WordSearchIsCaseInsensitive(t *testing.T) {
	ci := newTestContentIndex(t, Document{RelativePath: "main.go", Content: mainGo})

	results, _, err := ci.Search(SearchOptions{Query: "HELLO"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func Test_ContentIndex_PhraseSearch(t *testing.T) {
	ci := newTestContentIndex(t,
		Document{RelativePath: "a.txt", Content: "hello world\nworld hello"},
		Document{RelativePath: "b.txt", Content: "world hello"},
	)

	results, totalMatches, err := ci.Search(SearchOptions{Query: `"hello world"`})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.txt", results[0].RelativePath)
	assert.Equal(t, 1, totalMatches)
}

func Test_ContentIndex_RegexSearch(t *testing.T) {
	ci := newTestContentIndex(t,
		Document{RelativePath: "main.go", Content: mainGo},
		Document{RelativePath: "util.go", Content: "package main\n\nfunc helper() {}\n"},
	)

	results, totalMatches, err := ci.Search(SearchOptions{Query: `/func\s+\w+\(\)/`})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "main.go", results[0].RelativePath)
	assert.Equal(t, "util.go", results[1].RelativePath)
	assert.Equal(t, 2, totalMatches)
}

func Test_ContentIndex_InvalidRegex(t *testing.T) {
	ci := newTestContentIndex(t, Document{RelativePath: "main.go", Content: mainGo})

	_, _, err := ci.Search(SearchOptions{Query: "/([a-z/"})
	assert.Error(t, err)
}

func Test_ContentIndex_EmptyQuery(t *testing.T) {
	ci := newTestContentIndex(t, Document{RelativePath: "main.go", Content: mainGo})

	_, _, err := ci.Search(SearchOptions{Query: "   "})
	assert.Error(t, err)
}

func Test_ContentIndex_SearchWithContextLines(t *testing.T) {
	ci := newTestContentIndex(t, Document{
		RelativePath: "example.go",
		Content:      "line1\nline2\nline3 target\nline4\nline5",
	})

	results, _, err := ci.Search(SearchOptions{Query: "target", ContextLines: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)

	match := results[0].Matches[0]
	assert.Equal(t, 3, match.LineNumber)
	assert.Equal(t, []string{"line2"}, match.ContextBefore)
	assert.Equal(t, []string{"line4"}, match.ContextAfter)
}

func Test_ContentIndex_FileGlobFilter(t *testing.T) {
	ci := newTestContentIndex(t,
		Document{RelativePath: "src/main.go", Content: "config value"},
		Document{RelativePath: "docs/readme.md", Content: "config value"},
	)

	results, _, err := ci.Search(SearchOptions{Query: "config", FileGlob: "**/*.md"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "docs/readme.md", results[0].RelativePath)

	_, _, err = ci.Search(SearchOptions{Query: "config", FileGlob: "[bad"})
	assert.Error(t, err)
}

func Test_ContentIndex_MaxResults(t *testing.T) {
	ci := newTestContentIndex(t,
		Document{RelativePath: "a.txt", Content: "needle"},
		Document{RelativePath: "b.txt", Content: "needle"},
		Document{RelativePath: "c.txt", Content: "needle"},
	)

	results, _, err := ci.Search(SearchOptions{Query: "needle", MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func Test_ContentIndex_ReplaceSwapsContents(t *testing.T) {
	ci := newTestContentIndex(t, Document{RelativePath: "old.txt", Content: "needle"})
	assert.Equal(t, uint64(1), ci.DocumentCount())

	require.NoError(t, ci.Replace([]Document{
		{RelativePath: "new1.txt", Content: "other"},
		{RelativePath: "new2.txt", Content: "other"},
	}))

	assert.Equal(t, uint64(2), ci.DocumentCount())
	_, ok := ci.GetFileContent("old.txt")
	assert.False(t, ok)

	results, _, err := ci.Search(SearchOptions{Query: "needle"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func Test_Catalog_LoadSkipsFailedEntries(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)
	defer catalog.Close()

	result := &scan.Result{
		Root: "/project",
		Entries: []scan.Entry{
			{Path: "/project/a.py", RelativePath: "a.py", Content: "print('x')", Language: "Python", SizeBytes: 10, LineCount: 1},
			{Path: "/project/b.bin", RelativePath: "b.bin", Err: errors.New("binary")},
		},
		Processed: 1,
	}
	require.NoError(t, catalog.Load(result))

	assert.Equal(t, 1, catalog.Files.FileCount())
	assert.NotNil(t, catalog.Files.GetFile("a.py"))
	assert.Equal(t, uint64(1), catalog.Content.DocumentCount())

	content, ok := catalog.Content.GetFileContent("a.py")
	require.True(t, ok)
	assert.Equal(t, "print('x')", content)
}
