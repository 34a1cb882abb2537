package snapshot

import (
	"context"
	"time"

	"github.com/lexandro/codecontext/gitinfo"
	"github.com/lexandro/codecontext/scan"
)

// MetadataCollector is satisfied by *gitinfo.Collector.
type MetadataCollector interface {
	Collect(ctx context.Context, dir string) gitinfo.Metadata
}

// Builder runs the metadata query and the scan, in that order, and renders
// the result.
type Builder struct {
	Collector MetadataCollector
	// Now defaults to time.Now.
	Now func() time.Time
}

// Build produces the snapshot text for rootDir. It never fails: missing
// metadata and unreadable files are reflected in the text itself.
func (b *Builder) Build(ctx context.Context, rootDir string, options scan.Options) (string, *scan.Result) {
	root := scan.ResolveRoot(rootDir)

	var meta gitinfo.Metadata
	if b.Collector != nil {
		meta = b.Collector.Collect(ctx, root)
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	header := Header{Timestamp: now(), Root: root, Git: meta}

	result := scan.Scan(root, options)
	return Render(header, result), result
}
