package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/codecontext/scan"
)

func Test_AskDirectory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"blank line", "\n", "."},
		{"no input", "", "."},
		{"blank CRLF line", "\r\n", "."},
		{"surrounding spaces kept", "  my project \r\n", "  my project "},
		{"path", "~/src/app\n", "~/src/app"},
		{"path without newline", "/tmp/x", "/tmp/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			dir, err := AskDirectory(strings.NewReader(tt.input), &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dir)
			assert.Equal(t, DirectoryPrompt, out.String())
		})
	}
}

func Test_AskDirectory_ReadError(t *testing.T) {
	_, err := AskDirectory(iotest.ErrReader(errors.New("tty gone")), &bytes.Buffer{})
	assert.Error(t, err)
}

func Test_Printer_ProgressLines(t *testing.T) {
	var out bytes.Buffer
	printer := NewPrinter(&out, false)

	printer.ScanStarted("/work/app", []string{".md", ".py"})
	printer.FileProcessed(scan.Entry{RelativePath: "a.py", Content: "x"})
	printer.FileProcessed(scan.Entry{RelativePath: "b.bin", Err: errors.New("boom")})
	printer.Saved("project_context.txt")

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "🔍 Scanning: /work/app", lines[0])
	assert.Equal(t, "📁 File types: .md, .py", lines[1])
	assert.Equal(t, strings.Repeat("─", 50), lines[2])
	assert.Equal(t, "📄 Processed: a.py", lines[3])
	assert.Equal(t, "⚠️  Skipped: b.bin: boom", lines[4])
	assert.Equal(t, "✅ Code combined and saved to: project_context.txt", lines[5])
}

func Test_Printer_WriteFailed(t *testing.T) {
	var out bytes.Buffer
	NewPrinter(&out, false).WriteFailed(errors.New("disk full"))

	assert.Equal(t, "Error writing to file: disk full\n", out.String())
}

func Test_Printer_Summary(t *testing.T) {
	var out bytes.Buffer
	result := &scan.Result{
		Entries: []scan.Entry{
			{RelativePath: "a.py", Language: "Python"},
			{RelativePath: "b.py", Language: "Python"},
			{RelativePath: "c.md", Language: "Markdown"},
			{RelativePath: "d.json", Language: "JSON", Err: errors.New("binary")},
		},
		Processed: 3,
	}

	NewPrinter(&out, false).Summary(result)

	text := out.String()
	assert.Less(t, strings.Index(text, "Python"), strings.Index(text, "Markdown"))
	assert.Contains(t, text, "Python               2 files")
	assert.Contains(t, text, "unreadable           1 files")
	assert.NotContains(t, text, "JSON")
}

func Test_Discard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().ScanStarted("/", nil)
	})
}
