package language

import (
	"path/filepath"
	"strings"
)

// Unknown is reported for files whose extension has no mapping.
const Unknown = "Unknown"

// languageByExtension maps lower-cased extensions (with dot) to language names.
var languageByExtension = map[string]string{
	// Python
	".py": "Python", ".pyi": "Python",
	// JavaScript / TypeScript
	".js": "JavaScript", ".jsx": "JavaScript", ".mjs": "JavaScript", ".cjs": "JavaScript",
	".ts": "TypeScript", ".tsx": "TypeScript",
	// Web
	".html": "HTML", ".htm": "HTML", ".css": "CSS", ".scss": "SCSS",
	// Docs and data
	".md": "Markdown", ".txt": "Text", ".csv": "CSV",
	".json": "JSON", ".yml": "YAML", ".yaml": "YAML", ".xml": "XML", ".toml": "TOML",
	// JVM
	".java": "Java", ".kt": "Kotlin",
	// C family
	".c": "C", ".h": "C", ".cpp": "C++", ".cc": "C++", ".hpp": "C++", ".cs": "C#",
	// Go / Rust
	".go": "Go", ".rs": "Rust",
	// SQL
	".sql": "SQL",
	// Scripts
	".sh": "Shell", ".bash": "Shell", ".bat": "Batch", ".cmd": "Batch", ".ps1": "PowerShell",
}

// Extension returns the lower-cased extension of a path including its dot.
// A name consisting only of a dot-prefixed word (".env", ".gitignore")
// or ending in a bare dot has no extension.
func Extension(filePath string) string {
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	if ext == base || ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}

// DetectLanguage returns the language for a file path based on its extension,
// or Unknown.
func DetectLanguage(filePath string) string {
	if lang, ok := languageByExtension[Extension(filePath)]; ok {
		return lang
	}
	return Unknown
}
