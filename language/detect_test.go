package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Extension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.py", ".py"},
		{"src/App.TSX", ".tsx"},
		{"archive.tar.gz", ".gz"},
		{"Makefile", ""},
		{".env", ""},
		{"config/.eslintrc", ""},
		{"notes.", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Extension(tt.path), tt.path)
	}
}

func Test_DetectLanguage_KnownExtensions(t *testing.T) {
	assert.Equal(t, "Python", DetectLanguage("a.py"))
	assert.Equal(t, "TypeScript", DetectLanguage("src/components/App.tsx"))
	assert.Equal(t, "Markdown", DetectLanguage("README.MD"))
	assert.Equal(t, "PowerShell", DetectLanguage("deploy.ps1"))
}

func Test_DetectLanguage_UnknownExtension(t *testing.T) {
	assert.Equal(t, Unknown, DetectLanguage("data.xyz"))
	assert.Equal(t, Unknown, DetectLanguage("Dockerfile"))
}
