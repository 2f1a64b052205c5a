package ded

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Editor blocks until the user has finished editing path.
type Editor interface {
	Edit(path string) error
}

type CommandFailedError struct {
	Command  string
	ExitCode int
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("command `%s' exited with nonzero code: %d", e.Command, e.ExitCode)
}

// ShellEditor runs the editor command through sh, attached to the terminal.
type ShellEditor struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

func NewShellEditor(command string) *ShellEditor {
	return &ShellEditor{Command: command, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *ShellEditor) Edit(path string) error {
	line := fmt.Sprintf("%s %s", e.Command, shellQuote(path))
	L().Debug("running editor", zap.String("command", line))

	cmd := exec.Command("sh", "-c", line)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = e.Stdin, e.Stdout, e.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CommandFailedError{Command: line, ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("cannot run editor %q: %w", e.Command, err)
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ResolveEditor picks the editor command: explicit choice, then $VISUAL,
// then $EDITOR, then vi.
func ResolveEditor(explicit string) string {
	for _, candidate := range []string{explicit, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

// NewEditor returns an editor for command. When command is nvim and ded runs
// inside a Neovim session, the listing opens in that session.
func NewEditor(command string) Editor {
	shell := NewShellEditor(command)
	if !isNvimCommand(command) {
		return shell
	}
	if addr := nvimAddress(); addr != "" {
		return NewNvimEditor(addr, shell)
	}
	return shell
}

func isNvimCommand(command string) bool {
	fields := strings.Fields(command)
	return len(fields) > 0 && filepath.Base(fields[0]) == "nvim"
}
