package ded

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var ErrPromptAborted = errors.New("prompt aborted")

// Asker asks the user a yes/no question.
type Asker interface {
	Ask(prompt string, def bool) (bool, error)
}

// FixedAsker answers every question the same way (--yes / --no).
type FixedAsker struct {
	Answer bool
}

func (a FixedAsker) Ask(string, bool) (bool, error) { return a.Answer, nil }

func suggestion(def bool) string {
	if def {
		return "Y/n"
	}
	return "y/N"
}

// LineAsker reads answers line by line, asking again until it gets one.
type LineAsker struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLineAsker(in io.Reader, out io.Writer) *LineAsker {
	return &LineAsker{in: bufio.NewReader(in), out: out}
}

func (a *LineAsker) Ask(prompt string, def bool) (bool, error) {
	for {
		fmt.Fprintf(a.out, "%s (%s) ", prompt, suggestion(def))

		line, err := a.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return false, ErrPromptAborted
			}
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		case "":
			return def, nil
		}
		fmt.Fprintln(a.out, "answer `y' or `n'")
	}
}

type confirmModel struct {
	prompt  string
	def     bool
	answer  bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(key.String()) {
	case "y":
		m.answer, m.done = true, true
	case "n":
		m.answer, m.done = false, true
	case "enter":
		m.answer, m.done = m.def, true
	case "ctrl+c", "esc":
		m.aborted = true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	line := fmt.Sprintf("%s (%s) ", m.prompt, suggestion(m.def))
	switch {
	case m.aborted:
		return line + "\n"
	case m.done && m.answer:
		return line + "y\n"
	case m.done:
		return line + "n\n"
	}
	return line
}

// TeaAsker reads single key presses from the terminal.
type TeaAsker struct {
	out io.Writer
}

func NewTeaAsker(out io.Writer) *TeaAsker {
	return &TeaAsker{out: out}
}

func (a *TeaAsker) Ask(prompt string, def bool) (bool, error) {
	opts := []tea.ProgramOption{tea.WithOutput(a.out)}
	if !isTerminal(os.Stdin) {
		opts = append(opts, tea.WithInputTTY())
	}

	final, err := tea.NewProgram(confirmModel{prompt: prompt, def: def}, opts...).Run()
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	m := final.(confirmModel)
	if m.aborted {
		return false, ErrPromptAborted
	}
	return m.answer, nil
}

// NewAsker picks the prompt implementation for the current session.
func NewAsker(defaultAnswer *bool) Asker {
	if defaultAnswer != nil {
		return FixedAsker{Answer: *defaultAnswer}
	}
	if isTerminal(os.Stdout) {
		return NewTeaAsker(os.Stdout)
	}
	return NewLineAsker(os.Stdin, os.Stdout)
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
