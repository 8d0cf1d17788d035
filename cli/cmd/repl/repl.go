package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/hermes/lang"
	"github.com/ardnew/hermes/log"
)

// editVarsMsg is sent when variable editing completes successfully.
type editVarsMsg struct{ vars []lang.Variable }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a decode
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails.
type editErrorMsg struct{ err error }

const (
	templatePrompt = "➜ "
	ctrlPrompt     = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help                 Print this cruft
  vars                 List variables
  funcs                List functions
  set NAME TEMPLATE    Assign the evaluated template to a variable
  unset NAME...        Remove variables
  edit                 Edit variables as YAML in $EDITOR
  clear                Clear screen
  quit                 Exit REPL

Usage:
  Type a template to render it, e.g.  user- + ${name} + - + ${random_str(4)}
  Names complete inside ${ as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between template and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeTemplate inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

func prompt(mode inputMode) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(templatePrompt)
}

// formatEcho formats the echo line of a submitted input.
func formatEcho(mode inputMode, input string) string {
	return prompt(mode) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	reg          *lang.Registry
	opts         []lang.Option
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	stash        string // input of the inactive mode
}

// Run starts an interactive prompt that renders templates against reg.
//
// Submitted lines are appended to the history file at historyPath, which is
// created if needed. An empty historyPath disables persistence.
func Run(
	ctx context.Context,
	reg *lang.Registry,
	historyPath string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Int("history_len", history.Len()))

	m := newModel(ctx, reg, history, logger, opts...)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	reg *lang.Registry,
	history *History,
	logger log.Logger,
	opts ...lang.Option,
) model {
	ti := textinput.New()
	ti.Prompt = prompt(modeTemplate)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		reg:        reg,
		opts:       opts,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeTemplate,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 2

		return m, nil

	case editVarsMsg:
		for _, name := range variableNames(m.reg) {
			m.reg.RemoveVariable(name)
		}

		for _, v := range msg.vars {
			define(m.reg, v.Name, v.Value)
		}

		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("vars", len(msg.vars)))

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("variables updated (%d)", len(msg.vars))))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint returns the line shown below the input.
func (m model) hint() string {
	switch {
	case m.historyIdx < m.history.Len():
		return hintStyle.Render(
			fmt.Sprintf("%d/%d", m.historyIdx+1, m.history.Len()))

	case strings.TrimSpace(m.input.Value()) == "":
		if m.mode == modeCtrl {
			return hintStyle.Render(
				"Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
		}

		return hintStyle.Render("Type a template or press Esc for commands")

	case len(m.matches) > 0:
		return renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width, m.isFunction)

	default:
		return ""
	}
}

func (m model) isFunction(name string) bool {
	_, ok := m.reg.LookupFunction(name)

	return ok
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode(), nil

	case tea.KeyRunes:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, etc.) edits without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step (1 or -1), wrapping around.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with replacement
// and moves the cursor to its end.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	start := min(m.wordStart, len(input))
	end := min(max(m.wordEnd, start), len(input))

	m.input.SetValue(input[:start] + replacement + input[end:])

	m.wordEnd = start + len(replacement)
	m.input.SetCursor(utf8.RuneCountInString(input[:start] + replacement))
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true and the typed word already equals the sole
// candidate, the completion is confirmed and the bar is cleared.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Write(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl render",
		slog.String("input", input))

	out, problems := m.evaluate(input)

	cmds := []tea.Cmd{
		tea.Println(formatEcho(modeTemplate, input)),
		tea.Println(resultStyle.Render(out)),
	}

	for _, p := range problems {
		cmds = append(cmds, tea.Println(errorStyle.Render(p)))
	}

	return m, tea.Sequence(cmds...)
}

// evaluate renders input and describes every failed item. On a syntax error
// the output is empty and the only problem is the formatted error.
func (m model) evaluate(input string) (out string, problems []string) {
	results, err := lang.Evaluate(m.ctxFunc(), input, m.reg, m.opts...)
	if err != nil {
		return "", []string{lang.FormatSyntaxError(err, input)}
	}

	for i, r := range results {
		if r.Err != nil {
			problems = append(problems,
				fmt.Sprintf("item %d: %s: %v", i, lang.Kind(r.Err), r.Err))
		}
	}

	return lang.Join(results), problems
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	echo := tea.Println(formatEcho(modeCtrl, input))

	name, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.String("args", args))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())
	}

	out, err := m.command(name, args)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
	}

	if out == "" {
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

// command runs the commands that only read or modify the registry.
func (m model) command(name, args string) (string, error) {
	switch name {
	case "h", "help":
		return helpMessage(), nil

	case "vars":
		return m.listVars(), nil

	case "funcs":
		return strings.Join(functionNames(m.reg), "\n"), nil

	case "set":
		varName, tmpl, _ := strings.Cut(args, " ")
		if varName == "" {
			return "", fmt.Errorf("%w: set NAME TEMPLATE", ErrUsage)
		}

		v, err := m.assign(varName, strings.TrimSpace(tmpl))
		if err != nil {
			return "", err
		}

		return formatVar(lang.Variable{Name: varName, Value: v}), nil

	case "unset":
		fields := strings.Fields(args)
		if len(fields) == 0 {
			return "", fmt.Errorf("%w: unset NAME...", ErrUsage)
		}

		for _, f := range fields {
			m.reg.RemoveVariable(f)
		}

		return "", nil

	default:
		return "", fmt.Errorf("unknown command: %s (try 'help')", name)
	}
}

// assign evaluates tmpl and stores the result in the variable name. A
// template with a single item keeps that item's kind; longer templates are
// stored as their rendered Text. Nothing is stored if any item fails.
func (m model) assign(name, tmpl string) (lang.Value, error) {
	results, err := lang.Evaluate(m.ctxFunc(), tmpl, m.reg, m.opts...)
	if err != nil {
		return lang.Value{}, err
	}

	for _, r := range results {
		if r.Err != nil {
			return lang.Value{}, r.Err
		}
	}

	v := lang.Text(lang.Join(results))
	if len(results) == 1 {
		v = results[0].Value
	}

	define(m.reg, name, v)

	return v, nil
}

func (m model) listVars() string {
	var lines []string

	for v := range m.reg.Variables() {
		lines = append(lines, formatVar(v))
	}

	if len(lines) == 0 {
		return "(no variables)"
	}

	return strings.Join(lines, "\n")
}

func formatVar(v lang.Variable) string {
	s := v.Value.String()
	if v.Value.Kind() == lang.KindText {
		s = fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%s = %s (%s)", v.Name, s, v.Value.Kind())
}

func (m model) edit() tea.Cmd {
	data, err := lang.MarshalVariables(m.reg.Variables())
	if err != nil {
		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	cmd := &editVarsCommand{
		vars:    data,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case !cmd.edited:
			return editCancelledMsg{}
		}

		return editVarsMsg{vars: cmd.result}
	})
}

// define sets name to v, replacing any earlier definition.
func define(reg *lang.Registry, name string, v lang.Value) {
	if _, ok := reg.GetVariable(name); ok {
		reg.SetVariable(name, v)

		return
	}

	reg.AddVariable(name, v)
}

func (m model) historyPrev() model {
	if m.historyIdx > 0 {
		m.historyIdx--
		m = m.loadHistory()
	}

	return m
}

func (m model) historyNext() model {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		return m.loadHistory()
	}

	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m
}

func (m model) loadHistory() model {
	entry, err := m.history.Entry(m.historyIdx)
	if err != nil {
		return m
	}

	if m.mode != entry.Mode {
		m.mode = entry.Mode
		m.input.Prompt = prompt(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.CursorEnd()
	refreshMatches(&m, false)

	return m
}

// toggleMode switches between template and command mode, keeping the
// unfinished input of each.
func (m model) toggleMode() model {
	if m.mode == modeTemplate {
		m.mode = modeCtrl
	} else {
		m.mode = modeTemplate
	}

	text := m.input.Value()

	m.input.Prompt = prompt(m.mode)
	m.input.SetValue(m.stash)
	m.input.CursorEnd()
	m.stash = text
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m
}
