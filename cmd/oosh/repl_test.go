package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func newTestModel(t *testing.T) replModel {
	t.Helper()
	m, err := newREPLModel(defaultShellConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("new repl model: %v", err)
	}
	return m
}

func submit(t *testing.T, m replModel, input string) (replModel, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return rm, cmd
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	rm, cmd := submit(t, newTestModel(t), ":quit")

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	rm, cmd := submit(t, newTestModel(t), ":help")

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestEvaluateCreatesClass(t *testing.T) {
	m := newTestModel(t)

	output, isErr := m.evaluate("::oo::class create Point")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "::Point" {
		t.Fatalf("unexpected output %q", output)
	}
	if !m.interp.IsClass("Point") {
		t.Fatalf("expected Point to be a class")
	}

	output, isErr = m.evaluate("Point frobnicate")
	if !isErr {
		t.Fatalf("expected unknown method error, got %q", output)
	}
}

func TestEnterRecordsHistory(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(t, m, "::oo::class create Point")
	m, _ = submit(t, m, "Point create p")

	if len(m.history) != 2 || len(m.cmdHistory) != 2 {
		t.Fatalf("expected two history entries, got %d/%d", len(m.history), len(m.cmdHistory))
	}
	if m.history[1].output != "::p" || m.history[1].isErr {
		t.Fatalf("unexpected entry %+v", m.history[1])
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	if m.textInput.Value() != "Point create p" {
		t.Fatalf("expected history recall, got %q", m.textInput.Value())
	}
}

func TestHistoryIsCapped(t *testing.T) {
	cfg := defaultShellConfig()
	cfg.HistorySize = 2
	m, err := newREPLModel(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new repl model: %v", err)
	}
	for _, line := range []string{"::oo::class create A", "A create a1", "A create a2"} {
		m, _ = submit(t, m, line)
	}
	if len(m.history) != 2 || m.history[0].input != "A create a1" {
		t.Fatalf("expected the two newest entries, got %+v", m.history)
	}
}

func TestResetDiscardsObjects(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(t, m, "::oo::class create Point")
	m, _ = submit(t, m, ":reset")

	if m.interp.IsClass("Point") {
		t.Fatalf("expected reset to discard Point")
	}
	if last := m.history[len(m.history)-1]; last.output != "Object system reset" {
		t.Fatalf("unexpected reset output %q", last.output)
	}
}

func TestAutocompleteCompletesObjectNames(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(t, m, "::oo::class create Point")
	m, _ = submit(t, m, "Point create origin")

	m.textInput.SetValue("info object class ::or")
	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "info object class ::origin" {
		t.Fatalf("unexpected completion %q", got)
	}

	m.textInput.SetValue("obj")
	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "objdefine" {
		t.Fatalf("unexpected command completion %q", got)
	}
}

func TestViewShowsClassesPanel(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(t, m, "::oo::class create Point")
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = model.(replModel)
	m, _ = submit(t, m, ":classes")

	view := m.View()
	if !strings.Contains(view, "Classes") || !strings.Contains(view, "::Point") {
		t.Fatalf("expected classes panel in view:\n%s", view)
	}
}

func TestQualifiedCommandsReachInterpreter(t *testing.T) {
	m, _ := submit(t, newTestModel(t), "::oo::class create Point")

	last := m.history[len(m.history)-1]
	if last.isErr || last.output != "::Point" {
		t.Fatalf("expected the qualified command to run, got %+v", last)
	}
	if !m.interp.IsClass("::Point") {
		t.Fatalf("expected ::Point to be a class")
	}
	if len(m.cmdHistory) != 1 {
		t.Fatalf("expected the command in recall history, got %v", m.cmdHistory)
	}

	for input, want := range map[string]bool{
		":quit":            true,
		":h":               true,
		"::oo::class":      false,
		"::Point create p": false,
		"Point create p":   false,
	} {
		if got := isShellCommand(input); got != want {
			t.Fatalf("isShellCommand(%q): expected %v, got %v", input, want, got)
		}
	}
}

func TestHelpPanelListsKeysAndShellCommands(t *testing.T) {
	panel := renderHelpPanel()
	for _, want := range []string{"ctrl+v", "toggle classes", ":reset :r", "::qualified names"} {
		if !strings.Contains(panel, want) {
			t.Fatalf("expected help panel to mention %q:\n%s", want, panel)
		}
	}
}
