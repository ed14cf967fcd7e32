// ABOUTME: Interactive TUI wizard for configuring the private journal.
// ABOUTME: Bubbletea model collecting journal path, embedding endpoint, and embedding model.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/private-journal/internal/embeddings"
)

// DefaultJournalPath is offered when the journal path is left empty.
const DefaultJournalPath = "~/.private-journal"

// Step represents the current wizard step.
type Step int

const (
	StepJournalPath Step = iota
	StepBaseURL
	StepModel
	StepValidating
	StepDone
	StepFailed
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn checks the entered settings. An empty baseURL means the local
// embedder, which needs no connection check.
type ValidateFn func(ctx context.Context, journalPath, baseURL, model string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [3]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing
// config values. validate may be nil to use ValidateSetup without an API key.
func NewSetupModel(journalPath, baseURL, model string, validate ValidateFn) SetupModel {
	pathInput := textinput.New()
	pathInput.Placeholder = DefaultJournalPath
	pathInput.Focus()
	pathInput.Width = 50
	pathInput.SetValue(journalPath)

	urlInput := textinput.New()
	urlInput.Placeholder = "empty for the built-in local embedder"
	urlInput.Width = 50
	urlInput.SetValue(baseURL)

	modelInput := textinput.New()
	modelInput.Placeholder = embeddings.DefaultOpenAIModel
	modelInput.Width = 50
	modelInput.SetValue(model)

	s := spinner.New()
	s.Spinner = spinner.Dot

	if validate == nil {
		validate = NewValidator("")
	}

	return SetupModel{
		step:       StepJournalPath,
		inputs:     [3]textinput.Model{pathInput, urlInput, modelInput},
		spinner:    s,
		validateFn: validate,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepJournalPath, StepBaseURL, StepModel:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		idx := int(m.step)

		switch m.step {
		case StepJournalPath:
			if strings.TrimSpace(m.inputs[0].Value()) == "" {
				m.inputs[0].SetValue(DefaultJournalPath)
			}
		case StepBaseURL:
			m.inputs[1].SetValue(strings.TrimRight(strings.TrimSpace(m.inputs[1].Value()), "/"))
		case StepModel:
			if strings.TrimSpace(m.inputs[2].Value()) == "" {
				m.inputs[2].SetValue(embeddings.DefaultOpenAIModel)
			}
		}

		m.inputs[idx].Blur()

		switch m.step {
		case StepJournalPath:
			m.step = StepBaseURL
			m.inputs[1].Focus()
			return m, textinput.Blink
		case StepBaseURL:
			// The local embedder has no model to choose.
			if m.inputs[1].Value() == "" {
				m.inputs[2].SetValue("")
				m.step = StepValidating
				return m, tea.Batch(m.startValidation(), m.spinner.Tick)
			}
			m.step = StepModel
			m.inputs[2].Focus()
			return m, textinput.Blink
		case StepModel:
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	journalPath, baseURL, model := m.Result()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, journalPath, baseURL, model)}
	}
}

func (m SetupModel) embedderLabel() string {
	if m.inputs[1].Value() == "" {
		return "local (built-in)"
	}
	return m.inputs[1].Value()
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   PRIVATE JOURNAL"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Choose where entries live and how they are indexed for search.\n\n")

	switch m.step {
	case StepJournalPath:
		b.WriteString(stepStyle.Render("Step 1 of 3: Journal path"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepBaseURL:
		b.WriteString(fmt.Sprintf("  Journal: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 3: Embedding API URL"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(OpenAI-compatible, press Enter to use the local embedder)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepModel:
		b.WriteString(fmt.Sprintf("  Journal: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Embedder: %s\n\n", m.embedderLabel()))
		b.WriteString(stepStyle.Render("Step 3 of 3: Embedding model"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  Journal: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Embedder: %s\n", m.embedderLabel()))
		if m.inputs[2].Value() != "" {
			b.WriteString(fmt.Sprintf("  Model: %s\n", m.inputs[2].Value()))
		}
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" Validating setup...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Journal ready!"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() (journalPath, baseURL, model string) {
	return m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value()
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
