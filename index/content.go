package index

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"
)

// Document is one file handed to the content index.
type Document struct {
	RelativePath string
	Content      string
	Language     string
}

// ContentIndex provides full-text search over file contents using an
// in-memory Bleve index.
type ContentIndex struct {
	mu    sync.RWMutex
	index bleve.Index
	// Raw content for line-level result extraction, keyed by relative path.
	fileContents map[string]string
}

// NewContentIndex creates an empty in-memory content index.
func NewContentIndex() (*ContentIndex, error) {
	idx, err := bleve.NewMemOnly(newSnapshotMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}
	return &ContentIndex{index: idx, fileContents: map[string]string{}}, nil
}

// indexedDoc is what Bleve sees of a file. Content is searchable but not
// stored; line extraction reads fileContents.
type indexedDoc struct {
	Content  string `json:"content"`
	Path     string `json:"path"`
	Language string `json:"language"`
}

func newSnapshotMapping() *mapping.IndexMappingImpl {
	content := bleve.NewTextFieldMapping()
	content.Store = false

	path := bleve.NewKeywordFieldMapping()
	path.IncludeInAll = false

	lang := bleve.NewKeywordFieldMapping()
	lang.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	for name, field := range map[string]*mapping.FieldMapping{
		"content":  content,
		"path":     path,
		"language": lang,
	} {
		doc.AddFieldMappingsAt(name, field)
	}

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Replace builds a fresh index from docs and swaps it in. Searches running
// concurrently keep seeing the previous index until the swap.
func (ci *ContentIndex) Replace(docs []Document) error {
	fresh, err := bleve.NewMemOnly(newSnapshotMapping())
	if err != nil {
		return fmt.Errorf("creating bleve index: %w", err)
	}

	contents := make(map[string]string, len(docs))
	batch := fresh.NewBatch()
	for _, doc := range docs {
		contents[doc.RelativePath] = doc.Content
		err := batch.Index(doc.RelativePath, indexedDoc{
			Content:  doc.Content,
			Path:     doc.RelativePath,
			Language: doc.Language,
		})
		if err != nil {
			fresh.Close()
			return fmt.Errorf("indexing file %s: %w", doc.RelativePath, err)
		}
	}
	if batch.Size() > 0 {
		if err := fresh.Batch(batch); err != nil {
			fresh.Close()
			return fmt.Errorf("writing index batch: %w", err)
		}
	}

	ci.mu.Lock()
	old := ci.index
	ci.index = fresh
	ci.fileContents = contents
	ci.mu.Unlock()

	return old.Close()
}

// ContentSearchResult holds the matching lines of one file.
type ContentSearchResult struct {
	RelativePath string
	Matches      []LineMatch
}

// LineMatch is a single matching line with optional surrounding context.
type LineMatch struct {
	LineNumber    int
	LineText      string
	ContextBefore []string
	ContextAfter  []string
}

// SearchOptions narrows and shapes a Search call.
type SearchOptions struct {
	Query        string
	FileGlob     string
	MaxResults   int
	ContextLines int
}

// Search returns the files containing the query, each with its matching
// lines. Accepted forms:
//   - plain words: any of the words, case-insensitive
//   - "quoted text": exact phrase, case-insensitive
//   - /regex/: Go regular expression applied line by line
//
// The second result is the total number of matching lines across the
// returned files.
func (ci *ContentIndex) Search(options SearchOptions) ([]ContentSearchResult, int, error) {
	if options.MaxResults <= 0 {
		options.MaxResults = DefaultMaxResults
	}
	if options.ContextLines < 0 {
		options.ContextLines = 0
	}

	glob := strings.ReplaceAll(options.FileGlob, "\\", "/")
	if glob != "" && !doublestar.ValidatePattern(glob) {
		return nil, 0, fmt.Errorf("invalid glob pattern: %s", glob)
	}

	matcher, err := newLineMatcher(options.Query)
	if err != nil {
		return nil, 0, err
	}

	ci.mu.RLock()
	defer ci.mu.RUnlock()

	candidates, err := ci.candidates(options.Query, matcher)
	if err != nil {
		return nil, 0, err
	}

	var results []ContentSearchResult
	var totalMatches int
	for _, relativePath := range candidates {
		if glob != "" && !doublestar.MatchUnvalidated(glob, relativePath) {
			continue
		}
		hits := findMatchingLines(ci.fileContents[relativePath], matcher, options.ContextLines)
		if len(hits) == 0 {
			continue
		}
		totalMatches += len(hits)
		results = append(results, ContentSearchResult{RelativePath: relativePath, Matches: hits})
		if len(results) >= options.MaxResults {
			break
		}
	}
	return results, totalMatches, nil
}

// candidates returns the paths worth scanning line by line. Word and phrase
// queries go through Bleve, ordered by score; regular expressions span
// token boundaries, so every file is a candidate, in path order.
func (ci *ContentIndex) candidates(queryString string, matcher lineMatcher) ([]string, error) {
	if matcher.regex != nil {
		paths := make([]string, 0, len(ci.fileContents))
		for path := range ci.fileContents {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		return paths, nil
	}

	req := bleve.NewSearchRequestOptions(textQuery(queryString), len(ci.fileContents), 0, false)
	res, err := ci.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	paths := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if _, ok := ci.fileContents[hit.ID]; ok {
			paths = append(paths, hit.ID)
		}
	}
	return paths, nil
}

func textQuery(raw string) query.Query {
	raw = strings.TrimSpace(raw)
	if phrase, ok := unquote(raw, '"'); ok {
		q := bleve.NewMatchPhraseQuery(phrase)
		q.SetField("content")
		return q
	}
	q := bleve.NewMatchQuery(raw)
	q.SetField("content")
	return q
}

// lineMatcher decides whether a single line matches the query.
type lineMatcher struct {
	regex  *regexp.Regexp
	phrase string
	words  []string
}

func newLineMatcher(queryString string) (lineMatcher, error) {
	queryString = strings.TrimSpace(queryString)
	if queryString == "" {
		return lineMatcher{}, fmt.Errorf("empty query")
	}
	if pattern, ok := unquote(queryString, '/'); ok {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return lineMatcher{}, fmt.Errorf("invalid regular expression: %w", err)
		}
		return lineMatcher{regex: re}, nil
	}
	if phrase, ok := unquote(queryString, '"'); ok {
		return lineMatcher{phrase: strings.ToLower(phrase)}, nil
	}
	return lineMatcher{words: strings.Fields(strings.ToLower(queryString))}, nil
}

func (m lineMatcher) match(line string) bool {
	if m.regex != nil {
		return m.regex.MatchString(line)
	}
	lower := strings.ToLower(line)
	if m.phrase != "" {
		return strings.Contains(lower, m.phrase)
	}
	for _, word := range m.words {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func findMatchingLines(content string, matcher lineMatcher, contextLines int) []LineMatch {
	lines := strings.Split(content, "\n")

	var found []LineMatch
	for i, line := range lines {
		if !matcher.match(line) {
			continue
		}
		m := LineMatch{LineNumber: i + 1, LineText: line}
		if contextLines > 0 {
			lo := max(i-contextLines, 0)
			hi := min(i+contextLines+1, len(lines))
			m.ContextBefore = append([]string(nil), lines[lo:i]...)
			m.ContextAfter = append([]string(nil), lines[i+1:hi]...)
		}
		found = append(found, m)
	}
	return found
}

// unquote strips a matching delimiter pair from s.
func unquote(s string, delim byte) (string, bool) {
	if len(s) > 2 && s[0] == delim && s[len(s)-1] == delim {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// DocumentCount reports how many files the search index holds.
func (ci *ContentIndex) DocumentCount() uint64 {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	n, _ := ci.index.DocCount()
	return n
}

// GetFileContent returns the text of a scanned file by relative path.
func (ci *ContentIndex) GetFileContent(relativePath string) (string, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	content, ok := ci.fileContents[strings.ReplaceAll(relativePath, "\\", "/")]
	return content, ok
}

// Close releases the current search index.
func (ci *ContentIndex) Close() error {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	return ci.index.Close()
}
