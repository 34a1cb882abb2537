package config

// DefaultMaxFileSizeBytes is the largest file the scanner will read (95 MiB).
const DefaultMaxFileSizeBytes int64 = 95 * 1024 * 1024

// DefaultFileName is the config file looked up in the working directory
// when --config is not given.
const DefaultFileName = ".codecontext.yaml"

// DefaultExtensions lists the file extensions included in a snapshot.
// Extensions carry their leading dot and are matched case-insensitively.
var DefaultExtensions = []string{
	// Python / JavaScript / TypeScript
	".py", ".js", ".jsx", ".ts", ".tsx",

	// Web
	".html", ".css",

	// Docs and data
	".md", ".txt", ".json", ".yml", ".yaml", ".xml", ".csv",

	// JVM / C family
	".java", ".c", ".cpp", ".h",

	// SQL
	".sql",

	// Scripts
	".sh", ".bat", ".ps1",
}

// DefaultSkipDirs lists directory names whose whole subtree is left out.
var DefaultSkipDirs = []string{
	// Version control
	".git",

	// Python
	"__pycache__",
	"venv",
	"env",
	".venv",

	// Dependencies
	"node_modules",

	// Build output
	"dist",
	"build",
	"target",
	"bin",
	"obj",
	"debug",
	"release",

	// IDE / Editor
	".idea",
	".vscode",
}

// DefaultSkipFiles lists file names that are never included.
var DefaultSkipFiles = []string{
	// Lock files
	"package-lock.json",
	"yarn.lock",

	// OS files
	".DS_Store",
	"Thumbs.db",
}
