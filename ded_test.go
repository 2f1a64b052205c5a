package ded

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scratchDir = "/scratch"

type editorFunc func(path string) error

func (f editorFunc) Edit(path string) error { return f(path) }

// dropLine as an edit value deletes the whole listing line.
const dropLine = "\x00"

// rewriteListing returns an editor that replaces the name on each listing
// line whose current name is a key of edits.
func rewriteListing(t *testing.T, fs afero.Fs, edits map[string]string) editorFunc {
	return func(path string) error {
		content, err := afero.ReadFile(fs, path)
		require.NoError(t, err)

		var lines []string
		for _, line := range strings.Split(string(content), "\n") {
			if line == "" || strings.HasPrefix(line, "#") {
				lines = append(lines, line)
				continue
			}
			parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
			require.Len(t, parts, 2)
			name, ok := edits[parts[1]]
			switch {
			case !ok:
				lines = append(lines, line)
			case name != dropLine:
				lines = append(lines, parts[0]+" "+name)
			}
		}
		return afero.WriteFile(fs, path, []byte(strings.Join(lines, "\n")), 0644)
	}
}

func noopEditor() editorFunc {
	return func(string) error { return nil }
}

func newTestApp(fs afero.Fs, editor Editor, cfg *Config) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	if cfg.Dir == "" {
		cfg.Dir = workDir
	}
	cfg.ScratchDir = scratchDir
	return NewApp(cfg, WithFs(fs), WithEditor(editor), WithAsker(FixedAsker{}), WithOutput(out, out)), out
}

func TestAppRun(t *testing.T) {
	fs := newWorkFs(t, map[string]string{
		workDir + "/a.txt": "A",
		workDir + "/b.txt": "B",
		workDir + "/c.txt": "C",
	})
	app, out := newTestApp(fs, rewriteListing(t, fs, map[string]string{
		"a.txt": "renamed.txt",
		"b.txt": "",
		"c.txt": dropLine,
	}), &Config{})

	summary, err := app.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"/work/a.txt -> /work/renamed.txt"}, summary.Renamed)
	assert.Equal(t, []string{"/work/b.txt"}, summary.Removed)
	assert.Empty(t, summary.Failed)
	assert.Empty(t, summary.Skipped)
	assert.Contains(t, out.String(), "renaming `/work/a.txt' -> `/work/renamed.txt'")
	assert.NotContains(t, out.String(), "c.txt")

	assert.True(t, exists(t, fs, workDir+"/renamed.txt"))
	content, err := afero.ReadFile(fs, workDir+"/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "C", string(content), "a deleted line leaves its entry alone")
	assert.False(t, exists(t, fs, workDir+"/b.txt"))
	assert.False(t, exists(t, fs, ScratchPath(scratchDir, workDir)), "scratch file is removed")
}

func TestAppRunUnchangedListing(t *testing.T) {
	fs := newWorkFs(t, map[string]string{workDir + "/a": "A", workDir + "/b": "B"})
	app, out := newTestApp(fs, noopEditor(), &Config{})

	summary, err := app.Run()
	require.NoError(t, err)
	assert.True(t, summary.Empty())
	assert.Empty(t, out.String())
	assert.True(t, exists(t, fs, workDir+"/a"))
	assert.True(t, exists(t, fs, workDir+"/b"))
}

func TestAppRunEmptyDirectory(t *testing.T) {
	fs := newWorkFs(t, nil)
	called := false
	app, out := newTestApp(fs, editorFunc(func(string) error {
		called = true
		return nil
	}), &Config{})

	summary, err := app.Run()
	require.NoError(t, err)
	assert.True(t, summary.Empty())
	assert.Equal(t, msgNothingToDo+"\n", out.String())
	assert.False(t, called)
}

func TestAppRunHiddenOnly(t *testing.T) {
	fs := newWorkFs(t, map[string]string{workDir + "/.hidden": ""})
	app, out := newTestApp(fs, noopEditor(), &Config{})

	summary, err := app.Run()
	require.NoError(t, err)
	assert.True(t, summary.Empty())
	assert.Contains(t, out.String(), msgNothingToDo)
}

func TestAppRunUnlistableNames(t *testing.T) {
	victim := workDir + "/victim"
	crafted := workDir + "/x\n" + Digest(victim)[:1]
	invalid := workDir + "/caf\xe9"

	fs := newWorkFs(t, map[string]string{
		victim:  "V",
		crafted: "X",
		invalid: "I",
	})
	var listing string
	app, out := newTestApp(fs, editorFunc(func(path string) error {
		content, err := afero.ReadFile(fs, path)
		listing = string(content)
		return err
	}), &Config{})

	summary, err := app.Run()
	require.NoError(t, err)

	assert.True(t, summary.Empty(), "an untouched listing changes nothing")
	assert.True(t, exists(t, fs, victim))
	assert.True(t, exists(t, fs, crafted))
	assert.True(t, exists(t, fs, invalid))

	var lines []string
	for _, line := range strings.Split(listing, "\n") {
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], " victim"))
	assert.Contains(t, out.String(), ErrMultiline.Error())
	assert.Contains(t, out.String(), ErrInvalidName.Error())
}

func TestAppRunOnlyUnlistableNames(t *testing.T) {
	fs := newWorkFs(t, map[string]string{workDir + "/bad\rname": ""})
	called := false
	app, out := newTestApp(fs, editorFunc(func(string) error {
		called = true
		return nil
	}), &Config{})

	_, err := app.Run()
	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, out.String(), msgNothingToDo)
}

func TestAppRunEditorFailure(t *testing.T) {
	fs := newWorkFs(t, map[string]string{workDir + "/a": "A"})
	app, _ := newTestApp(fs, editorFunc(func(path string) error {
		require.NoError(t, afero.WriteFile(fs, path, []byte(""), 0644))
		return &CommandFailedError{Command: "vi", ExitCode: 1}
	}), &Config{})

	_, err := app.Run()

	var cmdErr *CommandFailedError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.EqualError(t, err, "command `vi' exited with nonzero code: 1")
	assert.True(t, exists(t, fs, workDir+"/a"), "nothing is applied")
}

func TestAppRunParseFailure(t *testing.T) {
	fs := newWorkFs(t, map[string]string{workDir + "/a": "A"})
	app, _ := newTestApp(fs, editorFunc(func(path string) error {
		return afero.WriteFile(fs, path, []byte("this is not a listing\n"), 0644)
	}), &Config{})

	_, err := app.Run()
	require.Error(t, err)

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "edited listing kept at "+ScratchPath(scratchDir, workDir))
	assert.True(t, exists(t, fs, ScratchPath(scratchDir, workDir)))
	assert.True(t, exists(t, fs, workDir+"/a"))
}

func TestAppRunDryRun(t *testing.T) {
	fs := newWorkFs(t, map[string]string{workDir + "/a": "A", workDir + "/b": "B"})
	app, _ := newTestApp(fs, rewriteListing(t, fs, map[string]string{"a": "x", "b": ""}), &Config{DryRun: true})

	summary, err := app.Run()
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Len(t, summary.Renamed, 1)
	assert.Len(t, summary.Removed, 1)
	assert.True(t, exists(t, fs, workDir+"/a"))
	assert.True(t, exists(t, fs, workDir+"/b"))
	assert.False(t, exists(t, fs, workDir+"/x"))
}

func TestAppListing(t *testing.T) {
	fs := newWorkFs(t, map[string]string{
		workDir + "/b.jpg":   "",
		workDir + "/a.png":   "",
		workDir + "/.secret": "",
		workDir + "/100%":    "",
	}, workDir+"/sub")

	tests := []struct {
		name    string
		cfg     Config
		names   []string
		missing []string
	}{
		{"default", Config{}, []string{"a.png", "b.jpg", "100%%", "sub/"}, []string{".secret"}},
		{"all", Config{ShowHidden: true}, []string{".secret"}, nil},
		{"dirs", Config{Only: OnlyDirs}, []string{"sub/"}, []string{"a.png", "b.jpg"}},
		{"files", Config{Only: OnlyFiles}, []string{"a.png"}, []string{"sub/"}},
		{"glob", Config{Globs: []string{"*.jpg"}}, []string{"b.jpg"}, []string{"a.png", "sub/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			app, _ := newTestApp(fs, nopEditor{}, &cfg)

			listing, err := app.Listing()
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(listing, "# Edit directory /work\n\n"))
			for _, n := range tt.names {
				assert.Contains(t, listing, " "+n+"\n")
			}
			for _, n := range tt.missing {
				assert.NotContains(t, listing, " "+n+"\n")
			}
		})
	}
}

func TestAppListingOrder(t *testing.T) {
	fs := newWorkFs(t, map[string]string{
		workDir + "/z":  "",
		workDir + "/.h": "",
		workDir + "/a":  "",
	}, workDir+"/dir")
	app, _ := newTestApp(fs, nopEditor{}, &Config{ShowHidden: true})

	listing, err := app.Listing()
	require.NoError(t, err)

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(listing), "\n")[1:] {
		if line == "" {
			continue
		}
		names = append(names, strings.Fields(line)[1])
	}
	assert.Equal(t, []string{"a", "z", "dir/", ".h"}, names)
}

func TestAppApplyListing(t *testing.T) {
	fs := newWorkFs(t, map[string]string{workDir + "/a": "A", workDir + "/b": "B"})
	ha, hb := Digest(workDir+"/a"), Digest(workDir+"/b")

	t.Run("markdown", func(t *testing.T) {
		doc := "Here is the edit:\n\n```ded\n" + ha[:8] + " first\n" + hb[:8] + " second\n```\n"
		summary, err := applyOn(fs, workDir, doc, Config{ScratchDir: scratchDir, DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"/work/a -> /work/first", "/work/b -> /work/second"}, summary.Renamed)
		assert.True(t, exists(t, fs, workDir+"/a"))
	})

	t.Run("plain listing", func(t *testing.T) {
		summary, err := applyOn(fs, workDir, ha+" first\n"+hb+"\n", Config{ScratchDir: scratchDir})
		require.NoError(t, err)
		assert.Equal(t, []string{"/work/a -> /work/first"}, summary.Renamed)
		assert.Equal(t, []string{"/work/b"}, summary.Removed)
		assert.True(t, exists(t, fs, workDir+"/first"))
		assert.False(t, exists(t, fs, workDir+"/b"))
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := applyOn(fs, workDir, "nope\n", Config{ScratchDir: scratchDir})
		var perr *ParseError
		assert.ErrorAs(t, err, &perr)
	})
}

func TestAppApplyListingOverwrite(t *testing.T) {
	yes := true
	fs := newWorkFs(t, map[string]string{workDir + "/a": "A", workDir + "/b": "B"})
	ha := Digest(workDir + "/a")

	summary, err := applyOn(fs, workDir, ha+" b\n", Config{ScratchDir: scratchDir})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/a"}, summary.Skipped)

	summary, err = applyOn(fs, workDir, ha+" b\n", Config{ScratchDir: scratchDir, DefaultAnswer: &yes})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/a -> /work/b"}, summary.Renamed)
}

func TestAppExecuteRecoversPanic(t *testing.T) {
	fs := newWorkFs(t, map[string]string{workDir + "/a": "A"})
	app, _ := newTestApp(fs, editorFunc(func(string) error { panic("boom") }), &Config{})

	_, err := app.Execute()

	var detailed *DetailedError
	require.ErrorAs(t, err, &detailed)
	assert.EqualError(t, err, "panic: boom")
	assert.NotEmpty(t, detailed.Stack)
}

func TestAppExecutePrint(t *testing.T) {
	fs := newWorkFs(t, map[string]string{workDir + "/a": "A"})
	app, out := newTestApp(fs, nopEditor{}, &Config{Mode: ModePrint})

	_, err := app.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "# Edit directory /work\n\n")
	assert.Contains(t, out.String(), " a\n")
}
