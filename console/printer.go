// Package console prints operator-facing progress for a snapshot run.
package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/lexandro/codecontext/scan"
)

const ruleWidth = 50

// Printer writes progress lines. Colors are optional so output written to
// files or buffers stays plain.
type Printer struct {
	out     io.Writer
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

// NewPrinter creates a printer writing to out. When colorize is false no
// escape sequences are emitted.
func NewPrinter(out io.Writer, colorize bool) *Printer {
	p := &Printer{
		out:     out,
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
	if !colorize {
		for _, c := range []*color.Color{p.success, p.fail, p.warn, p.label} {
			c.DisableColor()
		}
	}
	return p
}

// Discard returns a printer that prints nothing.
func Discard() *Printer {
	return NewPrinter(io.Discard, false)
}

// ScanStarted announces the root and the extension allow-list.
func (p *Printer) ScanStarted(root string, extensions []string) {
	fmt.Fprintf(p.out, "🔍 Scanning: %s\n", p.label.Sprint(root))
	fmt.Fprintf(p.out, "📁 File types: %s\n", strings.Join(extensions, ", "))
	fmt.Fprintln(p.out, strings.Repeat("─", ruleWidth))
}

// FileProcessed reports one scanned entry.
func (p *Printer) FileProcessed(entry scan.Entry) {
	if entry.OK() {
		fmt.Fprintf(p.out, "📄 Processed: %s\n", entry.RelativePath)
		return
	}
	fmt.Fprintf(p.out, "%s %s: %v\n", p.warn.Sprint("⚠️  Skipped:"), entry.RelativePath, entry.Err)
}

// Summary prints the per-language breakdown, most common language first.
func (p *Printer) Summary(result *scan.Result) {
	counts := make(map[string]int)
	for _, entry := range result.Entries {
		if entry.OK() {
			counts[entry.Language]++
		}
	}
	if len(counts) == 0 {
		return
	}

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

	fmt.Fprintln(p.out, strings.Repeat("─", ruleWidth))
	for _, entry := range entries {
		fmt.Fprintf(p.out, "  %-20s %d files\n", entry.lang, entry.count)
	}
	if failed := result.Failed(); failed > 0 {
		fmt.Fprintf(p.out, "  %s %d files\n", p.warn.Sprintf("%-20s", "unreadable"), failed)
	}
}

// Saved reports a successful write.
func (p *Printer) Saved(path string) {
	fmt.Fprintf(p.out, "%s %s\n", p.success.Sprint("✅ Code combined and saved to:"), path)
}

// WriteFailed reports a failed write of the snapshot.
func (p *Printer) WriteFailed(err error) {
	fmt.Fprintln(p.out, p.fail.Sprintf("Error writing to file: %v", err))
}

// Watching announces that watch mode is waiting for changes.
func (p *Printer) Watching(root string) {
	fmt.Fprintf(p.out, "👀 Watching %s for changes (Ctrl+C to stop)\n", p.label.Sprint(root))
}
