package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/gnostr-org/tcl/oo"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	interp      *oo.Interp
	cfg         *shellConfig
	logger      *zap.Logger
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showClasses bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle classes"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLModel(cfg *shellConfig, logger *zap.Logger) (replModel, error) {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = cfg.Prompt

	interp, err := newInterp(cfg, logger)
	if err != nil {
		return replModel{}, err
	}

	return replModel{
		textInput:  ti,
		interp:     interp,
		cfg:        cfg,
		logger:     logger,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}, nil
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showClasses = !m.showClasses
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if isShellCommand(input) {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.evaluate(input)
			m = m.record(historyEntry{input: input, output: output, isErr: isErr})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// isShellCommand reports whether input is a ":word" shell command rather
// than an object-system command. Qualified names such as ::oo::class start
// with "::" and go to the interpreter.
func isShellCommand(input string) bool {
	return strings.HasPrefix(input, ":") && !strings.HasPrefix(input, "::")
}

// record appends an entry, dropping the oldest once the configured history
// size is reached. A size of zero keeps everything.
func (m replModel) record(entry historyEntry) replModel {
	m.history = append(m.history, entry)
	if limit := m.cfg.HistorySize; limit > 0 && len(m.history) > limit {
		m.history = m.history[len(m.history)-limit:]
	}
	return m
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":classes", ":v":
		m.showClasses = !m.showClasses
	case ":reset", ":r":
		interp, err := newInterp(m.cfg, m.logger)
		if err != nil {
			m = m.record(historyEntry{input: input, output: err.Error(), isErr: true})
			break
		}
		m.interp = interp
		m = m.record(historyEntry{input: input, output: "Object system reset"})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m = m.record(historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if input == "" {
		return m
	}

	words := strings.Fields(input)
	if len(words) == 0 || strings.HasSuffix(input, " ") {
		return m
	}
	lastWord := words[len(words)-1]

	var completions []string
	for _, name := range m.completionCandidates(len(words) == 1) {
		if strings.HasPrefix(name, lastWord) {
			completions = append(completions, name)
		}
	}

	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}

	return m
}

// completionCandidates offers global command names in first position and
// object names everywhere else.
func (m replModel) completionCandidates(first bool) []string {
	if first {
		names := m.interp.Global().CommandNames()
		return append(names, "::oo::class", "::oo::singleton", "::oo::abstract", "::oo::object")
	}
	var names []string
	for _, obj := range m.interp.Objects() {
		names = append(names, obj.Name())
	}
	return names
}

func (m replModel) evaluate(input string) (string, bool) {
	result, err := m.interp.Eval(input)
	if err != nil {
		m.logger.Debug("command failed", zap.String("input", input), zap.Error(err))
		return err.Error(), true
	}
	if result.IsNil() {
		return "", false
	}
	return result.String(), false
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("oosh")
	version := mutedStyle.Render("object shell")
	b.WriteString(header + " " + version + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	classes := m.interp.Classes()
	reservedLines := 8
	if m.showHelp {
		reservedLines += len(shellCommands) + 13
	}
	if m.showClasses {
		reservedLines += len(classes) + 3
	}
	availableHeight := max(m.height-reservedLines, 0)

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showClasses {
		b.WriteString(renderClassesPanel(classes))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	b.WriteString(renderFooter())

	return b.String()
}

func renderClassesPanel(classes []*oo.Object) string {
	if len(classes) == 0 {
		return borderStyle.Render(mutedStyle.Render("No classes defined"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Classes"))
	nameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, cls := range classes {
		supers := make([]string, 0)
		for _, sup := range cls.Superclasses() {
			supers = append(supers, sup.Name())
		}
		line := fmt.Sprintf("  %s ← %s", nameStyle.Render(cls.Name()), strings.Join(supers, " "))
		lines = append(lines, line)
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

// shellCommands are the ":word" commands handled by the shell itself.
var shellCommands = []struct {
	names string
	desc  string
}{
	{":help :h", "toggle this panel"},
	{":classes :v", "list live classes and their superclasses"},
	{":clear :c", "clear the transcript"},
	{":reset :r", "discard every object and rebuild ::oo"},
	{":quit :q", "leave oosh"},
}

func renderHelpPanel() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	lines := []string{titleStyle.Render("Keys")}
	for _, b := range []key.Binding{keys.Up, keys.Down, keys.Tab, keys.Enter, keys.CtrlV, keys.CtrlL, keys.CtrlC} {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-12s", h.Key)),
			helpDescStyle.Render(h.Desc)))
	}
	lines = append(lines, "", titleStyle.Render("Shell commands"))
	for _, c := range shellCommands {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-12s", c.names)),
			helpDescStyle.Render(c.desc)))
	}
	lines = append(lines, "", helpDescStyle.Render("  anything else, including ::qualified names, goes to the object system"))
	return borderStyle.Render(strings.Join(lines, "\n"))
}

// renderFooter lists the toggles from the key map.
func renderFooter() string {
	var parts []string
	for _, b := range []key.Binding{keys.CtrlH, keys.CtrlV, keys.CtrlL, keys.CtrlC} {
		h := b.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+helpDescStyle.Render(" "+h.Desc))
	}
	return strings.Join(parts, helpDescStyle.Render("  ·  "))
}

func runREPL(cfg *shellConfig, logger *zap.Logger) error {
	m, err := newREPLModel(cfg, logger)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
