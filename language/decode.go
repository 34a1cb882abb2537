package language

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts raw file bytes to a string without failing on bad
// sequences: invalid UTF-8 is replaced with U+FFFD and a leading BOM selects
// UTF-8 or UTF-16. The conversion is lossy for files in other encodings.
// NUL and other control bytes are valid UTF-8 and pass through unchanged.
func DecodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return string(decoded), nil
}
