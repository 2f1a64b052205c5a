package ded

import (
	"github.com/spf13/afero"
)

// FileManager performs the filesystem mutations of an apply pass. In dry-run
// mode every mutation succeeds without touching the filesystem.
type FileManager struct {
	fs     afero.Fs
	dryRun bool
}

func NewFileManager(fs afero.Fs, dryRun bool) *FileManager {
	return &FileManager{fs: fs, dryRun: dryRun}
}

func (m *FileManager) DryRun() bool { return m.dryRun }

func (m *FileManager) Exists(path string) bool {
	if ls, ok := m.fs.(afero.Lstater); ok {
		_, _, err := ls.LstatIfPossible(path)
		return err == nil
	}
	_, err := m.fs.Stat(path)
	return err == nil
}

func (m *FileManager) Rename(oldPath, newPath string) error {
	if m.dryRun {
		return nil
	}
	return m.fs.Rename(oldPath, newPath)
}

// Remove deletes e, recursively when it is a directory.
func (m *FileManager) Remove(e Entry) error {
	if m.dryRun {
		return nil
	}
	if e.IsDir {
		return m.fs.RemoveAll(e.Path)
	}
	return m.fs.Remove(e.Path)
}
