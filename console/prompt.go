package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DirectoryPrompt is shown when no directory argument is given.
const DirectoryPrompt = "Enter the project directory (or leave blank for current dir): "

// AskDirectory prints the prompt and reads one line from in. Blank input or
// an immediate end of input means the current directory.
func AskDirectory(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, DirectoryPrompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading directory: %w", err)
	}

	// Only the line ending is dropped; spaces can be part of a path.
	dir := strings.TrimRight(line, "\r\n")
	if dir == "" {
		return ".", nil
	}
	return dir, nil
}
