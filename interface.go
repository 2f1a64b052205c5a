package ded

import (
	"io"

	"github.com/spf13/afero"
)

// Listing returns the editable listing of dir.
func Listing(dir string, config Config) (string, error) {
	config.Dir = dir
	app := NewApp(&config, WithAsker(FixedAsker{}), WithEditor(nopEditor{}))
	return app.Listing()
}

// Apply applies an edited listing to dir without prompting. Existing targets
// are only overwritten when config.DefaultAnswer is true.
func Apply(dir, listing string, config Config) (Summary, error) {
	return applyOn(afero.NewOsFs(), dir, listing, config)
}

func applyOn(fs afero.Fs, dir, listing string, config Config) (Summary, error) {
	config.Dir = dir

	asker := FixedAsker{}
	if config.DefaultAnswer != nil {
		asker.Answer = *config.DefaultAnswer
	}

	app := NewApp(&config,
		WithFs(fs),
		WithAsker(asker),
		WithEditor(nopEditor{}),
		WithOutput(io.Discard, io.Discard),
	)
	return app.ApplyListing(listing)
}

type nopEditor struct{}

func (nopEditor) Edit(string) error { return nil }
