package ded

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMissingDirective = errors.New("expected conversion directive or `%' after `%'")

type UnknownDirectiveError struct {
	Directive rune
}

func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("unknown conversion directive: %%%c", e.Directive)
}

// Formatter expands rename patterns. Its counter is shared by every
// pattern expanded during one apply pass.
type Formatter struct {
	width   int
	counter int
}

func NewFormatter() *Formatter {
	return &Formatter{width: 1, counter: 1}
}

func (f *Formatter) SetWidth(width int) { f.width = width }

func (f *Formatter) SetCounter(counter int) { f.counter = counter }

func (f *Formatter) next() string {
	n := f.counter
	f.counter++
	return fmt.Sprintf("%0*d", f.width, n)
}

// Expand replaces %n with the zero-padded counter and %% with a literal %.
func (f *Formatter) Expand(pattern string) (string, error) {
	var b strings.Builder
	runes := []rune(pattern)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '%' {
			b.WriteRune(c)
			continue
		}

		i++
		if i >= len(runes) {
			return "", ErrMissingDirective
		}

		switch runes[i] {
		case '%':
			b.WriteRune('%')
		case 'n':
			b.WriteString(f.next())
		default:
			return "", &UnknownDirectiveError{Directive: runes[i]}
		}
	}
	return b.String(), nil
}

// Escape doubles every % so the name survives Expand unchanged.
func Escape(name string) string {
	return strings.ReplaceAll(name, "%", "%%")
}

// RenderListing writes the editable listing for entries of dir.
func RenderListing(w io.Writer, dir string, entries []Entry, width int, verbose bool) error {
	if _, err := fmt.Fprintf(w, "# Edit directory %s\n\n", dir); err != nil {
		return err
	}

	for _, e := range entries {
		if verbose {
			if _, err := fmt.Fprintf(w, "# %s %s\n", e.Kind(), e.Path); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%*s %s\n", width, e.Short(width), Escape(e.Basename())); err != nil {
			return err
		}
	}
	return nil
}
