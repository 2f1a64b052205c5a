package ded

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// Reconciler applies parsed transforms to the entries of one snapshot.
type Reconciler struct {
	dir      string
	files    *FileManager
	asker    Asker
	reporter *Reporter
}

func NewReconciler(dir string, files *FileManager, asker Asker, reporter *Reporter) *Reconciler {
	return &Reconciler{dir: dir, files: files, asker: asker, reporter: reporter}
}

// Apply runs transforms in order. A failing transform is reported and
// recorded; the remaining ones still run.
func (r *Reconciler) Apply(idx *Index, transforms []Transform) Summary {
	summary := Summary{DryRun: r.files.DryRun()}

	f := NewFormatter()
	f.SetWidth(digitCount(len(transforms)))

	for _, t := range transforms {
		entry, err := idx.Resolve(t.Fragment)
		if err != nil {
			r.fail(&summary, t.Fragment, err)
			continue
		}

		switch t.Kind {
		case Rename:
			r.rename(&summary, f, entry, t.Pattern)
		case Remove:
			r.remove(&summary, entry)
		}
	}
	return summary
}

func (r *Reconciler) target(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(r.dir, name)
}

func (r *Reconciler) rename(s *Summary, f *Formatter, entry Entry, pattern string) {
	name, err := f.Expand(pattern)
	if err != nil {
		r.fail(s, entry.Path, fmt.Errorf("pattern %q: %w", pattern, err))
		return
	}

	oldPath, newPath := filepath.Clean(entry.Path), r.target(name)
	if oldPath == newPath {
		return
	}

	r.reporter.Renaming(oldPath, newPath)

	if r.files.Exists(newPath) {
		ok, err := r.asker.Ask(fmt.Sprintf("target `%s' exists, override?", newPath), false)
		if err != nil {
			r.fail(s, oldPath, err)
			return
		}
		if !ok {
			r.reporter.Skipped()
			s.Skipped = append(s.Skipped, oldPath)
			return
		}
	}

	if err := r.files.Rename(oldPath, newPath); err != nil {
		r.fail(s, oldPath, err)
		return
	}
	L().Debug("renamed", zap.String("from", oldPath), zap.String("to", newPath), zap.Bool("dry_run", s.DryRun))
	s.Renamed = append(s.Renamed, fmt.Sprintf("%s -> %s", oldPath, newPath))
}

func (r *Reconciler) remove(s *Summary, entry Entry) {
	r.reporter.Removing(entry.Path)

	if err := r.files.Remove(entry); err != nil {
		r.fail(s, entry.Path, err)
		return
	}
	L().Debug("removed", zap.String("path", entry.Path), zap.Bool("dry_run", s.DryRun))
	s.Removed = append(s.Removed, entry.Path)
}

func (r *Reconciler) fail(s *Summary, subject string, err error) {
	r.reporter.Error(err)
	s.Failed = append(s.Failed, subject)
}
