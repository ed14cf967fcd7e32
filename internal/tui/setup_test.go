// ABOUTME: Unit tests for the setup TUI wizard bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to test state machine transitions.
package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/private-journal/internal/embeddings"
)

func noopValidate(context.Context, string, string, string) error { return nil }

func newModel() SetupModel {
	return NewSetupModel("", "", "", noopValidate)
}

func TestNewSetupModel_DefaultValues(t *testing.T) {
	m := newModel()
	if m.step != StepJournalPath {
		t.Errorf("expected initial step StepJournalPath, got %d", m.step)
	}
	if m.inputs[0].Value() != "" {
		t.Error("expected empty journal path input for new config")
	}
	if m.validateFn == nil {
		t.Error("expected a validate function")
	}
	if NewSetupModel("", "", "", nil).validateFn == nil {
		t.Error("expected nil validate to fall back to the default")
	}
}

func TestNewSetupModel_ExistingConfig(t *testing.T) {
	m := NewSetupModel("~/journal", "http://localhost:11434/v1", "nomic-embed-text", noopValidate)
	path, baseURL, model := m.Result()
	if path != "~/journal" {
		t.Errorf("expected pre-filled journal path, got %q", path)
	}
	if baseURL != "http://localhost:11434/v1" {
		t.Errorf("expected pre-filled base URL, got %q", baseURL)
	}
	if model != "nomic-embed-text" {
		t.Errorf("expected pre-filled model, got %q", model)
	}
}

func TestSetupModel_StepTransitions(t *testing.T) {
	m := newModel()

	m.inputs[0].SetValue("/tmp/journal")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepBaseURL {
		t.Errorf("expected StepBaseURL after Enter on journal path, got %d", m.step)
	}
	// cmd is textinput.Blink for the newly focused input
	_ = cmd

	m.inputs[1].SetValue("http://localhost:11434/v1")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepModel {
		t.Errorf("expected StepModel after Enter on base URL, got %d", m.step)
	}

	m.inputs[2].SetValue("nomic-embed-text")
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Errorf("expected StepValidating after Enter on model, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd (validation + spinner tick) when entering validation")
	}
}

func TestSetupModel_DefaultJournalPath(t *testing.T) {
	m := newModel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.inputs[0].Value() != DefaultJournalPath {
		t.Errorf("expected default journal path %q, got %q", DefaultJournalPath, m.inputs[0].Value())
	}
	if m.step != StepBaseURL {
		t.Errorf("expected StepBaseURL after default path applied, got %d", m.step)
	}
}

func TestSetupModel_EmptyBaseURLSkipsModel(t *testing.T) {
	m := NewSetupModel("/tmp/journal", "", "stale-model", noopValidate)
	m.step = StepBaseURL

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Errorf("expected StepValidating with local embedder, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected validation cmd")
	}
	if _, _, model := m.Result(); model != "" {
		t.Errorf("expected model cleared for local embedder, got %q", model)
	}
}

func TestSetupModel_DefaultModel(t *testing.T) {
	m := NewSetupModel("/tmp/journal", "http://localhost/v1", "", noopValidate)
	m.step = StepModel

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.inputs[2].Value() != embeddings.DefaultOpenAIModel {
		t.Errorf("expected default model, got %q", m.inputs[2].Value())
	}
}

func TestSetupModel_TrailingSlashNormalized(t *testing.T) {
	m := newModel()
	m.step = StepBaseURL
	m.inputs[1].SetValue("http://localhost:11434/v1/ ")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.inputs[1].Value() != "http://localhost:11434/v1" {
		t.Errorf("expected trailing slash stripped, got %q", m.inputs[1].Value())
	}
}

func TestSetupModel_ValidationSuccess(t *testing.T) {
	m := newModel()
	m.step = StepValidating

	updated, _ := m.Update(validationResultMsg{err: nil})
	m = updated.(SetupModel)
	if m.step != StepDone {
		t.Errorf("expected StepDone after successful validation, got %d", m.step)
	}
}

func TestSetupModel_ValidationFailure(t *testing.T) {
	m := newModel()
	m.step = StepValidating

	updated, _ := m.Update(validationResultMsg{err: fmt.Errorf("connection refused")})
	m = updated.(SetupModel)
	if m.step != StepFailed {
		t.Errorf("expected StepFailed after validation error, got %d", m.step)
	}
	if m.validationErr == nil {
		t.Error("expected validationErr to be set")
	}
}

func TestSetupModel_FailedRetry(t *testing.T) {
	m := newModel()
	m.step = StepFailed
	m.validationErr = fmt.Errorf("some error")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Errorf("expected StepValidating after retry, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd on retry")
	}
}

func TestSetupModel_FailedSaveAnyway(t *testing.T) {
	m := newModel()
	m.step = StepFailed

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = updated.(SetupModel)
	if m.step != StepDone {
		t.Errorf("expected StepDone after save anyway, got %d", m.step)
	}
	if !m.ShouldSave() {
		t.Error("expected ShouldSave true after save anyway")
	}
}

func TestSetupModel_FailedQuit(t *testing.T) {
	m := newModel()
	m.step = StepFailed

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m2 := updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd")
	}
	if !m2.quitting {
		t.Error("expected quitting to be true after 'q'")
	}
	if m2.ShouldSave() {
		t.Error("expected ShouldSave false after quit")
	}
}

func TestSetupModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEscape} {
		m := newModel()
		updated, cmd := m.Update(tea.KeyMsg{Type: key})
		m = updated.(SetupModel)
		if cmd == nil {
			t.Errorf("expected quit cmd on %v", key)
		}
		if !m.quitting {
			t.Errorf("expected quitting to be true on %v", key)
		}
		if m.ShouldSave() {
			t.Errorf("expected ShouldSave false on %v", key)
		}
	}
}

func TestSetupModel_ViewShowsCurrentStep(t *testing.T) {
	m := newModel()
	if !strings.Contains(m.View(), "PRIVATE JOURNAL") {
		t.Error("expected view to contain branding")
	}

	m.step = StepJournalPath
	if !strings.Contains(m.View(), "Journal path") {
		t.Error("expected StepJournalPath view to mention Journal path")
	}

	m.step = StepBaseURL
	if !strings.Contains(m.View(), "Embedding API URL") {
		t.Error("expected StepBaseURL view to mention Embedding API URL")
	}

	m.step = StepModel
	view := m.View()
	if !strings.Contains(view, "Embedding model") || !strings.Contains(view, "local (built-in)") {
		t.Errorf("unexpected StepModel view:\n%s", view)
	}

	m.step = StepValidating
	if !strings.Contains(m.View(), "Validating setup") {
		t.Error("expected StepValidating view to mention Validating setup")
	}

	m.step = StepDone
	if !strings.Contains(m.View(), "Journal ready") {
		t.Error("expected StepDone view to mention Journal ready")
	}
}

func TestSetupModel_ViewFailed(t *testing.T) {
	m := newModel()
	m.step = StepFailed
	m.validationErr = fmt.Errorf("timeout")
	view := m.View()
	for _, want := range []string{"Validation failed", "timeout", "[r]etry", "[s]ave anyway", "[q]uit"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected StepFailed view to contain %q", want)
		}
	}
}

func TestSetupModel_ViewFailedNilError(t *testing.T) {
	m := newModel()
	m.step = StepFailed
	view := m.View()
	if strings.Contains(view, "<nil>") {
		t.Error("expected nil error to be rendered gracefully, not as <nil>")
	}
	if !strings.Contains(view, "unknown error") {
		t.Error("expected nil error to show 'unknown error' fallback")
	}
}

func TestSetupModel_CtrlCDuringValidation(t *testing.T) {
	cancelled := false
	m := NewSetupModel("/tmp/journal", "http://localhost/v1", "m", func(ctx context.Context, _, _, _ string) error {
		<-ctx.Done()
		cancelled = true
		return ctx.Err()
	})
	m.step = StepModel

	updated, batchCmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Fatalf("expected StepValidating, got %d", m.step)
	}

	// batchMsg[0] is the validation cmd, batchMsg[1] is the spinner tick.
	batchMsg := batchCmd().(tea.BatchMsg)
	done := make(chan tea.Msg)
	go func() {
		done <- batchMsg[0]()
	}()

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(SetupModel)
	if !m.quitting {
		t.Error("expected quitting to be true after Ctrl+C during validation")
	}

	<-done
	if !cancelled {
		t.Error("expected validation context to be cancelled")
	}
}

func TestSetupModel_ValidationPassesCorrectArgs(t *testing.T) {
	var gotPath, gotURL, gotModel string
	m := NewSetupModel("/tmp/journal", "http://example.com/v1", "embed-model", func(_ context.Context, journalPath, baseURL, model string) error {
		gotPath, gotURL, gotModel = journalPath, baseURL, model
		return nil
	})
	m.step = StepModel

	_, batchCmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	batchMsg := batchCmd().(tea.BatchMsg)
	batchMsg[0]() // validation cmd

	if gotPath != "/tmp/journal" {
		t.Errorf("expected journal path %q, got %q", "/tmp/journal", gotPath)
	}
	if gotURL != "http://example.com/v1" {
		t.Errorf("expected base URL %q, got %q", "http://example.com/v1", gotURL)
	}
	if gotModel != "embed-model" {
		t.Errorf("expected model %q, got %q", "embed-model", gotModel)
	}
}

func TestSetupModel_FullPrefilledFlow(t *testing.T) {
	m := NewSetupModel("/tmp/journal", "http://example.com/v1", "embed-model", noopValidate)

	for _, want := range []Step{StepBaseURL, StepModel} {
		u, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = u.(SetupModel)
		if m.step != want {
			t.Fatalf("expected step %d, got %d", want, m.step)
		}
	}

	u, batchCmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = u.(SetupModel)
	if m.step != StepValidating {
		t.Fatalf("expected StepValidating, got %d", m.step)
	}

	batchMsg := batchCmd().(tea.BatchMsg)
	u, _ = m.Update(batchMsg[0]())
	m = u.(SetupModel)

	if m.step != StepDone {
		t.Errorf("expected StepDone, got %d", m.step)
	}
	if !m.ShouldSave() {
		t.Errorf("expected ShouldSave=true, got false (quitting=%v)", m.quitting)
	}
}

func TestSetupModel_FullFlowWithTeaProgram(t *testing.T) {
	m := NewSetupModel("/tmp/journal", "", "", func(_ context.Context, _, _, _ string) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	p := tea.NewProgram(m, tea.WithInput(nil), tea.WithoutRenderer())

	go func() {
		p.Send(tea.KeyMsg{Type: tea.KeyEnter}) // journal path
		p.Send(tea.KeyMsg{Type: tea.KeyEnter}) // base URL -> local embedder -> validates -> done -> quit
	}()

	result, err := p.Run()
	if err != nil {
		t.Fatalf("tea.Program error: %v", err)
	}

	final := result.(SetupModel)
	if !final.ShouldSave() {
		t.Errorf("expected ShouldSave=true after successful validation, got false (step=%d, quitting=%v)", final.step, final.quitting)
	}
}
