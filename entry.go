package ded

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Entry is one filesystem object observed while taking a snapshot.
type Entry struct {
	Path   string
	IsDir  bool
	Hidden bool
	Hash   string
}

func NewEntry(path string, isDir bool) Entry {
	return NewEntryWithHash(Digest(path), path, isDir)
}

func NewEntryWithHash(hash, path string, isDir bool) Entry {
	return Entry{
		Path:   path,
		IsDir:  isDir,
		Hidden: strings.HasPrefix(filepath.Base(path), "."),
		Hash:   hash,
	}
}

// Short returns the first width characters of the identifier.
func (e Entry) Short(width int) string {
	if width >= len(e.Hash) {
		return e.Hash
	}
	return e.Hash[:width]
}

// Basename is the name shown in the listing; directories carry a trailing separator.
func (e Entry) Basename() string {
	name := filepath.Base(e.Path)
	if e.IsDir {
		name += string(filepath.Separator)
	}
	return name
}

var (
	ErrInvalidName = errors.New("name is not valid UTF-8")
	ErrMultiline   = errors.New("name contains a line break")
)

// Listable reports whether the basename can be written to a listing line
// and read back unchanged.
func (e Entry) Listable() error {
	name := filepath.Base(e.Path)
	if !utf8.ValidString(name) {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "\r\n") {
		return ErrMultiline
	}
	return nil
}

func (e Entry) Kind() string {
	if e.IsDir {
		return "Directory"
	}
	return "File"
}

func entryLess(a, b Entry) bool {
	if a.Hidden != b.Hidden {
		return !a.Hidden
	}
	if a.IsDir != b.IsDir {
		return !a.IsDir
	}
	return a.Path < b.Path
}

// SortEntries orders entries for presentation: visible before hidden,
// files before directories, then by path.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entryLess(entries[i], entries[j]) })
}
