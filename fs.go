package ded

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const scratchDirName = "ded"

type Only string

const (
	OnlyAll   Only = ""
	OnlyDirs  Only = "dirs"
	OnlyFiles Only = "files"
)

// DirLister enumerates the direct children of a directory.
type DirLister struct {
	fs afero.Fs
}

func NewDirLister(fs afero.Fs) *DirLister {
	return &DirLister{fs: fs}
}

func (l *DirLister) List(dir string) ([]Entry, error) {
	infos, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, NewEntry(filepath.Join(dir, info.Name()), info.IsDir()))
	}
	return entries, nil
}

// EntryFilter decides which enumerated entries make it into the listing.
type EntryFilter struct {
	ShowHidden bool
	Only       Only
	Globs      []string
}

func (f EntryFilter) Match(e Entry) (bool, error) {
	if e.Hidden && !f.ShowHidden {
		return false, nil
	}
	if e.IsDir && f.Only == OnlyFiles {
		return false, nil
	}
	if !e.IsDir && f.Only == OnlyDirs {
		return false, nil
	}
	if len(f.Globs) == 0 {
		return true, nil
	}

	name := filepath.Base(e.Path)
	for _, g := range f.Globs {
		ok, err := filepath.Match(g, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob %q: %w", g, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (f EntryFilter) Apply(entries []Entry) ([]Entry, error) {
	kept := entries[:0:0]
	for _, e := range entries {
		ok, err := f.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// ResolveDir returns the absolute, cleaned form of dir, defaulting to the
// working directory.
func ResolveDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve working directory %s: %w", dir, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return abs, nil
}

func DefaultScratchDir() string {
	return filepath.Join(os.TempDir(), scratchDirName)
}

// ScratchPath is where the listing for dir is written inside scratchDir.
func ScratchPath(scratchDir, dir string) string {
	return filepath.Join(scratchDir, Digest(dir))
}
