package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoInput is returned by ReadText when no text source is available.
var ErrNoInput = errors.New("no input text")

// ReadText picks the input for a one-shot analysis: the file when path is
// set, otherwise args joined by spaces, otherwise all of stdin. A nil stdin
// counts as empty.
func ReadText(args []string, stdin io.Reader, path string) (string, error) {
	if path != "" {
		if len(args) > 0 {
			return "", errors.New("text arguments and a file are mutually exclusive")
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(b), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if stdin == nil {
		return "", ErrNoInput
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
