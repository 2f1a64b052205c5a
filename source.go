package ded

import (
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// SourceProvider supplies an edited listing without running an editor:
// piped stdin when present, the clipboard otherwise.
type SourceProvider struct {
	stdin *os.File
}

func NewSourceProvider() *SourceProvider {
	return &SourceProvider{stdin: os.Stdin}
}

func (sp *SourceProvider) GetContent() (string, error) {
	if !isTerminal(sp.stdin) {
		c, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", err
		}
		return string(c), nil
	}

	c, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(c), nil
}

func CopyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
