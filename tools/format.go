package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/codecontext/index"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// FormatSearchResults formats content search results grouped by file, with
// line numbers and optional context.
func FormatSearchResults(results []index.ContentSearchResult, totalMatches int) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d matches in %d files:\n\n", totalMatches, len(results))

	for i, result := range results {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "── %s ──\n", result.RelativePath)

		for _, match := range result.Matches {
			for _, ctxLine := range match.ContextBefore {
				fmt.Fprintf(&builder, "  %s\n", ctxLine)
			}
			fmt.Fprintf(&builder, "  %d: %s\n", match.LineNumber, match.LineText)
			for _, ctxLine := range match.ContextAfter {
				fmt.Fprintf(&builder, "  %s\n", ctxLine)
			}
		}
	}

	return builder.String()
}

// FormatFileResults formats a file listing. total is the match count before
// truncation; when it exceeds len(files) a note says how many were left out.
func FormatFileResults(files []*index.IndexedFile, total int, nameOnly bool) string {
	if len(files) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d files:\n\n", total)

	for _, file := range files {
		if nameOnly {
			builder.WriteString(file.RelativePath)
			builder.WriteString("\n")
			continue
		}
		fmt.Fprintf(&builder, "  %s  (%s, %s, %d lines)\n",
			file.RelativePath,
			file.Language,
			formatFileSize(file.SizeBytes),
			file.LineCount,
		)
	}
	if total > len(files) {
		fmt.Fprintf(&builder, "\n... %d more not shown\n", total-len(files))
	}

	return builder.String()
}

// FormatFileContent formats content with 1-based line numbers. offset is the
// first line to show (1-based, 0 means the start) and limit caps the number
// of lines (0 means no cap).
func FormatFileContent(content string, offset int, limit int) string {
	lines := strings.Split(content, "\n")

	start := 0
	if offset > 0 {
		start = offset - 1
	}
	if start >= len(lines) {
		return fmt.Sprintf("Offset exceeds file length (%d lines)", len(lines))
	}
	end := len(lines)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	width := len(fmt.Sprintf("%d", end))

	var builder strings.Builder
	for i := start; i < end; i++ {
		fmt.Fprintf(&builder, "%*d: %s\n", width, i+1, lines[i])
	}
	return builder.String()
}

// FormatLanguageCounts lists languages by file count, most common first.
func FormatLanguageCounts(counts map[string]int) string {
	type langEntry struct {
		lang  string
		count int
	}
	entries := make([]langEntry, 0, len(counts))
	for lang, count := range counts {
		entries = append(entries, langEntry{lang, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].lang < entries[j].lang
	})

	var builder strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&builder, "  %-20s %d files\n", entry.lang, entry.count)
	}
	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
