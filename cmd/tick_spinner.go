package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/mafia-engine/internal/application"
)

type tickDoneMsg struct {
	report application.TickReport
	err    error
}

type tickSpinnerModel struct {
	spinner spinner.Model
	label   string
	tick    tea.Cmd
	report  application.TickReport
	err     error
	done    bool
}

func newTickSpinnerModel(label string, tick tea.Cmd) tickSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return tickSpinnerModel{
		spinner: s,
		label:   label,
		tick:    tick,
	}
}

func (m tickSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick)
}

func (m tickSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tickDoneMsg:
		m.done = true
		m.report = msg.report
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m tickSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runTickSpinner(ctx context.Context, output io.Writer, tick func(context.Context) (application.TickReport, error)) (application.TickReport, error) {
	tickCmd := func() tea.Msg {
		report, err := tick(ctx)
		return tickDoneMsg{report: report, err: err}
	}

	p := tea.NewProgram(
		newTickSpinnerModel("Advancing due sessions...", tickCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return application.TickReport{}, err
	}

	result, ok := finalModel.(tickSpinnerModel)
	if !ok {
		return application.TickReport{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.report, result.err
}
