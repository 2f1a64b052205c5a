package ded

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	renamedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
)

// Reporter prints the progress of an apply pass as it happens.
type Reporter struct {
	out    io.Writer
	errOut io.Writer
}

func NewReporter(out, errOut io.Writer) *Reporter {
	return &Reporter{out: out, errOut: errOut}
}

func (r *Reporter) Renaming(oldPath, newPath string) {
	fmt.Fprintf(r.out, "renaming `%s' -> `%s'...\n", oldPath, newPath)
}

func (r *Reporter) Removing(path string) {
	fmt.Fprintf(r.out, "remove `%s'...\n", path)
}

func (r *Reporter) Skipped() {
	fmt.Fprintln(r.out, "skipped")
}

func (r *Reporter) Error(err error) {
	fmt.Fprintf(r.errOut, "%s %v\n", errorStyle.Render("error:"), err)
}

func (r *Reporter) Message(msg string) {
	fmt.Fprintln(r.errOut, msg)
}

func FormatSummary(s Summary) string {
	var b strings.Builder
	if s.DryRun {
		b.WriteString(headerStyle.Render("Dry run, nothing was changed") + "\n\n")
	}

	renderList := func(title string, style lipgloss.Style, list []string) {
		if len(list) == 0 {
			return
		}
		b.WriteString(style.Render(title) + "\n")
		for _, f := range list {
			b.WriteString(fmt.Sprintf("  %s\n", f))
		}
	}

	renderList("Renamed:", renamedStyle, s.Renamed)
	renderList("Removed:", removedStyle, s.Removed)
	renderList("Skipped:", skippedStyle, s.Skipped)
	renderList("Failed:", errorStyle, s.Failed)

	return b.String()
}
