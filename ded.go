package ded

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	msgNothingToDo = "nothing to do: directory listing is empty"
	msgEmptySource = "nothing to do: source is empty"
)

type Mode int

const (
	ModeEdit Mode = iota
	ModePrint
	ModeApply
)

type Config struct {
	Dir           string
	ScratchDir    string
	Editor        string
	HashWidth     int
	ShowHidden    bool
	Verbose       bool
	DryRun        bool
	DefaultAnswer *bool
	Globs         []string
	Only          Only
	Mode          Mode
	Clipboard     bool
}

func (c *Config) filter() EntryFilter {
	return EntryFilter{ShowHidden: c.ShowHidden, Only: c.Only, Globs: c.Globs}
}

type App struct {
	cfg      *Config
	fs       afero.Fs
	lister   *DirLister
	editor   Editor
	asker    Asker
	source   *SourceProvider
	out      io.Writer
	reporter *Reporter
}

type Option func(*App)

func WithFs(fs afero.Fs) Option { return func(a *App) { a.fs = fs } }

func WithEditor(e Editor) Option { return func(a *App) { a.editor = e } }

func WithAsker(asker Asker) Option { return func(a *App) { a.asker = asker } }

func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.reporter = NewReporter(out, errOut)
	}
}

type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string { return e.Err.Error() }

func NewApp(cfg *Config, opts ...Option) *App {
	a := &App{
		cfg:      cfg,
		fs:       afero.NewOsFs(),
		out:      os.Stdout,
		reporter: NewReporter(os.Stdout, os.Stderr),
		source:   NewSourceProvider(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.cfg.ScratchDir == "" {
		a.cfg.ScratchDir = DefaultScratchDir()
	}
	if a.editor == nil {
		a.editor = NewEditor(ResolveEditor(cfg.Editor))
	}
	if a.asker == nil {
		a.asker = NewAsker(cfg.DefaultAnswer)
	}
	a.lister = NewDirLister(a.fs)
	return a
}

func (a *App) Execute() (summary Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	switch a.cfg.Mode {
	case ModePrint:
		return Summary{}, a.printListing()
	case ModeApply:
		return a.applyFromSource()
	default:
		return a.Run()
	}
}

// snapshot lists, filters, and sorts the directory entries and picks the
// identifier width.
func (a *App) snapshot() ([]Entry, int, error) {
	entries, err := a.lister.List(a.cfg.Dir)
	if err != nil {
		return nil, 0, err
	}

	entries, err = a.cfg.filter().Apply(entries)
	if err != nil {
		return nil, 0, err
	}
	entries = a.dropUnlistable(entries)

	width := NewSnapshotBuilder(a.cfg.HashWidth).Assign(entries)
	SortEntries(entries)

	L().Debug("snapshot taken", zap.String("dir", a.cfg.Dir), zap.Int("entries", len(entries)), zap.Int("width", width))
	return entries, width, nil
}

// dropUnlistable removes entries whose name would not survive a round trip
// through the listing, so an untouched line can never turn into an operation.
func (a *App) dropUnlistable(entries []Entry) []Entry {
	kept := entries[:0:0]
	for _, e := range entries {
		if err := e.Listable(); err != nil {
			L().Warn("entry left out of listing", zap.String("path", e.Path), zap.Error(err))
			a.reporter.Message(fmt.Sprintf("skipping %q: %v", e.Path, err))
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func (a *App) render(entries []Entry, width int) ([]byte, error) {
	var b bytes.Buffer
	if err := RenderListing(&b, a.cfg.Dir, entries, width, a.cfg.Verbose); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Run performs an interactive edit: write the listing, let the user edit
// it, then apply the result.
func (a *App) Run() (Summary, error) {
	entries, width, err := a.snapshot()
	if err != nil {
		return Summary{}, err
	}
	if len(entries) == 0 {
		a.reporter.Message(msgNothingToDo)
		return Summary{}, nil
	}

	path, err := a.writeScratch(entries, width)
	if err != nil {
		return Summary{}, err
	}

	indexReady := BuildIndexAsync(entries)

	if err := a.editor.Edit(path); err != nil {
		return Summary{}, err
	}

	idx := <-indexReady
	L().Debug("index ready", zap.Int("entries", idx.Len()))

	content, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return Summary{}, fmt.Errorf("cannot read edited listing: %w", err)
	}

	transforms, err := ParseTransforms(string(content))
	if err != nil {
		return Summary{}, fmt.Errorf("edited listing kept at %s: %w", path, err)
	}
	L().Debug("listing parsed", zap.Int("transforms", len(transforms)))

	summary := a.reconciler().Apply(idx, transforms)

	if err := a.fs.Remove(path); err != nil {
		return summary, fmt.Errorf("cannot remove %s: %w", path, err)
	}
	return summary, nil
}

func (a *App) writeScratch(entries []Entry, width int) (string, error) {
	if err := a.fs.MkdirAll(a.cfg.ScratchDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create temporary directory: %w", err)
	}

	data, err := a.render(entries, width)
	if err != nil {
		return "", err
	}

	path := ScratchPath(a.cfg.ScratchDir, a.cfg.Dir)
	if err := afero.WriteFile(a.fs, path, data, 0644); err != nil {
		return "", fmt.Errorf("cannot write listing: %w", err)
	}
	L().Debug("listing written", zap.String("path", path))
	return path, nil
}

func (a *App) reconciler() *Reconciler {
	return NewReconciler(a.cfg.Dir, NewFileManager(a.fs, a.cfg.DryRun), a.asker, a.reporter)
}

// Listing renders the listing without starting an edit session.
func (a *App) Listing() (string, error) {
	entries, width, err := a.snapshot()
	if err != nil {
		return "", err
	}

	data, err := a.render(entries, width)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *App) printListing() error {
	listing, err := a.Listing()
	if err != nil {
		return err
	}

	if _, err := io.WriteString(a.out, listing); err != nil {
		return err
	}
	if a.cfg.Clipboard {
		if err := CopyToClipboard(listing); err != nil {
			return fmt.Errorf("cannot copy listing to clipboard: %w", err)
		}
	}
	return nil
}

// ApplyListing applies an already edited listing to the directory. The
// identifiers only depend on the entry paths, so a listing printed by an
// earlier run still resolves.
func (a *App) ApplyListing(content string) (Summary, error) {
	listing, err := ExtractListing(content)
	if err != nil {
		return Summary{}, err
	}

	transforms, err := ParseTransforms(listing)
	if err != nil {
		return Summary{}, err
	}

	entries, _, err := a.snapshot()
	if err != nil {
		return Summary{}, err
	}
	if len(entries) == 0 {
		a.reporter.Message(msgNothingToDo)
		return Summary{}, nil
	}

	return a.reconciler().Apply(NewIndexFrom(entries), transforms), nil
}

func (a *App) applyFromSource() (Summary, error) {
	content, err := a.source.GetContent()
	if err != nil {
		return Summary{}, fmt.Errorf("cannot read edited listing: %w", err)
	}
	if content == "" {
		a.reporter.Message(msgEmptySource)
		return Summary{}, nil
	}
	return a.ApplyListing(content)
}
