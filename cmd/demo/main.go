package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kass/coordcon/pkg/classify"
	"github.com/kass/coordcon/pkg/convert"
	"github.com/kass/coordcon/pkg/format"
	"github.com/kass/coordcon/pkg/grid"
	"github.com/kass/coordcon/pkg/models"
	"github.com/kass/coordcon/pkg/utm"
)

const historySize = 8

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6")).
			Background(lipgloss.Color("#282A36")).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BD93F9")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

// entry is one converted (or rejected) input line
type entry struct {
	input  string
	output string
	cell   string
	err    error
}

type model struct {
	input   textinput.Model
	opts    format.Options
	index   *grid.Index
	history []entry
	width   int
}

func initialModel(index *grid.Index) model {
	ti := textinput.New()
	ti.Placeholder = "51 10  or  570168.862 5650300.787 32U"
	ti.Prompt = "> "
	ti.CharLimit = 128
	ti.Width = 48
	ti.Focus()

	return model{
		input: ti,
		opts:  format.DefaultOptions(),
		index: index,
		width: 80,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.history = append([]entry{m.convert(line)}, m.history...)
			if len(m.history) > historySize {
				m.history = m.history[:historySize]
			}
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// convert runs one line through the same classifier and projections as the CLI
func (m model) convert(line string) entry {
	e := entry{input: line}

	rec, err := classify.Line(line)
	if err != nil {
		e.err = err
		return e
	}
	res, err := convert.Convert(rec)
	if err != nil {
		e.err = err
		return e
	}
	e.output = m.opts.Text(res)

	g := res.Geodetic
	if rec.Direction == models.Forward {
		g = rec.Geodetic
	}
	if cell, err := m.index.Locate(g); err == nil {
		e.cell = fmt.Sprintf("cell %s, central meridian %.0f", cell.Name(), cell.CentralMeridian)
	}
	return e
}

// errorKind names the error class shown to the user
func errorKind(err error) string {
	switch {
	case errors.Is(err, utm.ErrOutOfRange):
		return "out of range"
	case errors.Is(err, utm.ErrMalformedZone):
		return "malformed zone"
	case errors.Is(err, classify.ErrAmbiguousRecord):
		return "ambiguous record"
	case errors.Is(err, classify.ErrMalformedRecord):
		return "malformed record"
	default:
		return "error"
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Coordinate Converter"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("latitude longitude  |  easting northing zone [letter]"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.history) > 0 {
		var lines []string
		for _, e := range m.history {
			lines = append(lines, dimStyle.Render(e.input))
			if e.err != nil {
				lines = append(lines, errorStyle.Render(fmt.Sprintf("  %s: %v", errorKind(e.err), e.err)))
				continue
			}
			lines = append(lines, successStyle.Render("  "+e.output))
			if e.cell != "" {
				lines = append(lines, infoStyle.Render("  "+e.cell))
			}
		}
		box := boxStyle
		if m.width > 4 {
			box = box.MaxWidth(m.width)
		}
		b.WriteString(box.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("enter: convert  esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func main() {
	index, err := grid.NewIndex()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	if _, err := tea.NewProgram(initialModel(index)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
