// Package snapshot turns a scan result and repository metadata into the
// flat project_context.txt artifact.
package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexandro/codecontext/gitinfo"
	"github.com/lexandro/codecontext/scan"
)

// DefaultOutputFile is the artifact name written when no output is given.
const DefaultOutputFile = "project_context.txt"

// TimestampLayout formats the header timestamp (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

const detachedBranch = "(detached HEAD)"

// Header carries everything rendered above the file bodies.
type Header struct {
	Timestamp time.Time
	Root      string
	Git       gitinfo.Metadata
}

// Render produces the aggregate text for one snapshot.
func Render(header Header, result *scan.Result) string {
	var builder strings.Builder

	writeHeader(&builder, header)

	for _, entry := range result.Entries {
		if !entry.OK() {
			fmt.Fprintf(&builder, "\n\n[Error reading %s: %v]", entry.RelativePath, entry.Err)
			continue
		}
		fmt.Fprintf(&builder, "\n\n# File: %s\n", entry.RelativePath)
		builder.WriteString(entry.Content)
		builder.WriteString("\n\n")
	}

	fmt.Fprintf(&builder, "\n\n📊 Total files processed: %d\n", result.Processed)
	return builder.String()
}

func writeHeader(builder *strings.Builder, header Header) {
	fmt.Fprintf(builder, "# 🚀 PROJECT CODE CONTEXT - %s\n\n", header.Timestamp.Format(TimestampLayout))
	fmt.Fprintf(builder, "Directory: %s\n", header.Root)

	if header.Git.Present {
		branch := header.Git.Branch
		if branch == "" {
			branch = detachedBranch
		}
		fmt.Fprintf(builder, "Git Branch: %s\n", branch)
		fmt.Fprintf(builder, "Git Commit ID: %s\n", header.Git.Commit)
		if header.Git.UnstagedFiles > 0 {
			fmt.Fprintf(builder, "🚨 Unstaged Changes: %d files\n", header.Git.UnstagedFiles)
		}
	} else {
		builder.WriteString("⚠️ Not a Git repository\n")
	}

	builder.WriteString("\n")
}
