package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/spread/pkg/deps"
)

// errPromptAborted is returned when the user quits a conflict prompt. It
// wraps context.Canceled so the command exits like an interrupt.
var errPromptAborted = fmt.Errorf("conflict prompt aborted: %w", context.Canceled)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorFile)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
)

// =============================================================================
// ConflictModel - Interactive version conflict resolution
// =============================================================================

// conflictChoices is the order in which choices are listed.
var conflictChoices = []deps.Choice{deps.KeepExisting, deps.TakeIncoming, deps.Skip}

// ConflictModel is the bubbletea model asking which version of a package
// to keep. The cursor starts on the existing version.
type ConflictModel struct {
	Conflict deps.Conflict
	Cursor   int
	Selected *deps.Choice
	Aborted  bool
}

// NewConflictModel creates a prompt for c.
func NewConflictModel(c deps.Conflict) ConflictModel {
	return ConflictModel{Conflict: c}
}

func (m ConflictModel) Init() tea.Cmd {
	return nil
}

func (m ConflictModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(conflictChoices)-1 {
			m.Cursor++
		}
	case "e":
		return m.choose(0)
	case "n":
		return m.choose(1)
	case "s":
		return m.choose(2)
	case "enter":
		return m.choose(m.Cursor)
	}
	return m, nil
}

func (m ConflictModel) choose(i int) (tea.Model, tea.Cmd) {
	choice := conflictChoices[i]
	m.Cursor = i
	m.Selected = &choice
	return m, tea.Quit
}

func (m ConflictModel) View() string {
	if m.Selected != nil || m.Aborted {
		return ""
	}
	c := m.Conflict

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Version conflict: " + c.Package))
	b.WriteString(listDimStyle.Render(" (" + c.Kind.String() + ")"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  e/n/s shortcut  q abort"))
	b.WriteString("\n\n")

	incoming := "Use new " + c.Incoming
	if c.Source != "" {
		incoming += " (from " + c.Source + ")"
	}
	labels := []string{"Keep existing " + c.Existing, incoming, "Skip " + c.Package}
	for i, label := range labels {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + label))
		} else {
			b.WriteString(listNormalStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Resolvers
// =============================================================================

// promptResolver asks the user about each conflict on the terminal. The
// spinner, if any, is paused while the prompt is shown.
type promptResolver struct {
	in      io.Reader
	out     io.Writer
	spinner *Spinner

	mu sync.Mutex
}

func (p *promptResolver) Resolve(ctx context.Context, c deps.Conflict) (deps.Choice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		p.spinner.Pause()
		defer p.spinner.Resume()
	}

	prog := tea.NewProgram(NewConflictModel(c),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return 0, errPromptAborted
		}
		return 0, fmt.Errorf("conflict prompt: %w", err)
	}

	m, ok := final.(ConflictModel)
	if !ok || m.Aborted || m.Selected == nil {
		return 0, errPromptAborted
	}
	return *m.Selected, nil
}

// conflictPolicy selects how version conflicts are decided. An explicit
// policy wins, then --yes (take the incoming version); otherwise the user
// is prompted when stdin is a terminal and existing versions are kept when
// it is not.
func conflictPolicy(policy string, yes, interactive bool, spinner *Spinner) (deps.ConflictResolver, error) {
	if policy != "" {
		choice, err := deps.ParseChoice(policy)
		if err != nil {
			return nil, err
		}
		return deps.Always(choice), nil
	}
	if yes {
		return deps.PreferIncoming, nil
	}
	if !interactive {
		return deps.PreferExisting, nil
	}
	return &promptResolver{in: os.Stdin, out: os.Stderr, spinner: spinner}, nil
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
