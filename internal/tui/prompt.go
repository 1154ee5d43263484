package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/autoapply/internal/model"
)

var (
	promptTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 0, 2)

	promptReasonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Padding(1, 0, 0, 4)

	promptHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 1, 2)
)

// Ensure Prompt implements model.Pauser.
var _ model.Pauser = (*Prompt)(nil)

type promptModel struct {
	reason    string
	resumed   bool
	cancelled bool
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "c":
			m.resumed = true
			return m, tea.Quit
		case "q", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m promptModel) View() string {
	if m.resumed || m.cancelled {
		return ""
	}
	s := promptTitleStyle.Render("⏸ Paused")
	s += "\n" + promptReasonStyle.Render(m.reason)
	s += "\n" + promptHintStyle.Render("enter continue  q end the run")
	return s
}

// Prompt blocks the session until the operator continues or ends the run.
// It renders inline (no alt screen) so the browser window stays visible.
type Prompt struct {
	opts []tea.ProgramOption
}

// NewPrompt returns a pause prompt on the process terminal. Extra options
// (e.g. tea.WithInput) are passed to the underlying program.
func NewPrompt(opts ...tea.ProgramOption) *Prompt {
	return &Prompt{opts: opts}
}

// Pause shows reason and waits for a key. It returns model.ErrOperatorAbort
// when the operator chooses to end the run.
func (p *Prompt) Pause(ctx context.Context, reason string) error {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.opts...)
	prog := tea.NewProgram(promptModel{reason: reason}, opts...)
	result, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("pause prompt: %w", err)
	}
	if final := result.(promptModel); !final.resumed {
		return model.ErrOperatorAbort
	}
	return nil
}
