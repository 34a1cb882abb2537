// Package index keeps the files of the last scan searchable by path glob
// and by content.
package index

import (
	"github.com/lexandro/codecontext/scan"
)

// Catalog pairs the file path index with the content index so both always
// describe the same scan.
type Catalog struct {
	Files   *FileIndex
	Content *ContentIndex
}

// NewCatalog creates an empty catalog.
func NewCatalog() (*Catalog, error) {
	content, err := NewContentIndex()
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Files:   NewFileIndex(),
		Content: content,
	}, nil
}

// Load replaces both indexes with the readable entries of result. Entries
// that failed to read are left out.
func (c *Catalog) Load(result *scan.Result) error {
	files := make([]*IndexedFile, 0, len(result.Entries))
	docs := make([]Document, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if !entry.OK() {
			continue
		}
		files = append(files, &IndexedFile{
			Path:         entry.Path,
			RelativePath: entry.RelativePath,
			Language:     entry.Language,
			SizeBytes:    entry.SizeBytes,
			ModTime:      entry.ModTime,
			LineCount:    entry.LineCount,
		})
		docs = append(docs, Document{
			RelativePath: entry.RelativePath,
			Content:      entry.Content,
			Language:     entry.Language,
		})
	}

	if err := c.Content.Replace(docs); err != nil {
		return err
	}
	c.Files.Replace(files)
	return nil
}

// Close releases the content index.
func (c *Catalog) Close() error {
	return c.Content.Close()
}
