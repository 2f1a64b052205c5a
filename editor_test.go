package ded

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", ResolveEditor(""))

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", ResolveEditor(""))

	t.Setenv("VISUAL", "code --wait")
	assert.Equal(t, "code --wait", ResolveEditor(""))
	assert.Equal(t, "hx", ResolveEditor("hx"))
	assert.Equal(t, "code --wait", ResolveEditor("  "))
}

func TestNewEditor(t *testing.T) {
	t.Setenv("NVIM", "")
	t.Setenv("NVIM_LISTEN_ADDRESS", "")

	assert.IsType(t, &ShellEditor{}, NewEditor("vim"))
	assert.IsType(t, &ShellEditor{}, NewEditor("nvim"))

	t.Setenv("NVIM", "/tmp/nvim.sock")
	assert.IsType(t, &NvimEditor{}, NewEditor("/usr/bin/nvim --clean"))
	assert.IsType(t, &ShellEditor{}, NewEditor("vim"))
}

func TestIsNvimCommand(t *testing.T) {
	assert.True(t, isNvimCommand("nvim"))
	assert.True(t, isNvimCommand("/opt/bin/nvim -u NONE"))
	assert.False(t, isNvimCommand("vim"))
	assert.False(t, isNvimCommand("nvim-qt"))
	assert.False(t, isNvimCommand(""))
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `'/tmp/it'\''s'`, shellQuote("/tmp/it's"))
	assert.Equal(t, `/tmp/it''s`, vimQuote("/tmp/it's"))
}

func newQuietShellEditor(command string) *ShellEditor {
	return &ShellEditor{Command: command, Stdin: &bytes.Buffer{}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
}

func TestShellEditor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing with space")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0644))

	require.NoError(t, newQuietShellEditor("true").Edit(path))

	require.NoError(t, newQuietShellEditor("printf 'ab x\\n' >").Edit(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ab x\n", string(content))

	err = newQuietShellEditor("false").Edit(path)
	var cmdErr *CommandFailedError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Contains(t, cmdErr.Command, "false '")
}
