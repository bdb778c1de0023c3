package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl"
	"github.com/msto63/textomat/foundation/dsl/ast"
	"github.com/msto63/textomat/foundation/dsl/command"
	"github.com/msto63/textomat/foundation/utils/stringx"
)

// Focus identifies the pane receiving key input
type Focus int

const (
	FocusCommand Focus = iota
	FocusInput
	FocusOutput
)

var focusNames = []string{"COMMAND", "INPUT", "OUTPUT"}

func (f Focus) String() string {
	if f >= 0 && int(f) < len(focusNames) {
		return focusNames[f]
	}
	return "UNKNOWN"
}

// ParseFocus accepts a pane name or its first letter
func ParseFocus(s string) (Focus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "command":
		return FocusCommand, nil
	case "i", "input":
		return FocusInput, nil
	case "o", "output":
		return FocusOutput, nil
	}
	return FocusCommand, mdwerror.Newf("unknown focus %q, use command, input or output", s).
		WithCode(mdwerror.CodeInvalidConfig)
}

// Options configures the UI
type Options struct {
	Engine  *dsl.Engine
	Text    string
	Command string
	// Path is watched and reloaded into the input pane when set
	Path     string
	Focus    Focus
	Vertical bool
	Manual   bool
	Debounce time.Duration
	// LexerThreshold disables output highlighting above this size
	LexerThreshold int
	// InputTTY reads keys from the terminal when stdin carries the text
	InputTTY bool
	// Output receives the rendered UI; nil means stdout
	Output io.Writer
	Logger *mdwlog.Logger
}

// Model is the main TUI model
type Model struct {
	// State
	width    int
	height   int
	ready    bool
	focus    Focus
	vertical bool
	live     bool
	showHelp bool
	running  bool
	err      error
	notice   string

	// Components
	input   textarea.Model
	output  viewport.Model
	command textinput.Model
	help    help.Model
	keys    KeyMap

	// Engine state
	engine  *dsl.Engine
	session *dsl.Session
	cmd     *command.ProcessedCommand
	result  string
	printed bool

	inSyntax  string
	outSyntax string

	// pending holds the trigger of edits not yet processed
	pending    bool
	pendingTrg dsl.Trigger
	// queued is set when a run was requested while another was running
	queued    bool
	queuedTrg dsl.Trigger
	seq       int

	debounce       time.Duration
	lexerThreshold int
	watcher        *fileWatcher
	logger         *mdwlog.Logger
}

// New creates a new TUI model
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = mdwlog.Discard()
	}

	ta := textarea.New()
	ta.Placeholder = "Paste or type input text..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(opts.Text)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "command, e.g. h;t:i;s:{a,b};o:j"
	ti.SetValue(opts.Command)

	m := Model{
		focus:          opts.Focus,
		vertical:       opts.Vertical,
		live:           !opts.Manual,
		input:          ta,
		output:         viewport.New(0, 0),
		command:        ti,
		help:           help.New(),
		keys:           DefaultKeyMap(),
		engine:         opts.Engine,
		session:        opts.Engine.NewSession(),
		debounce:       opts.Debounce,
		lexerThreshold: opts.LexerThreshold,
		logger:         opts.Logger.WithField("component", "tui"),
	}
	m.applyFocus()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, func() tea.Msg { return startMsg{} }}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.wait())
	}
	return tea.Batch(cmds...)
}

// Output returns the rendered output of the last successful run
func (m Model) Output() string { return m.result }

// Printed reports whether the user asked to print the output on exit
func (m Model) Printed() bool { return m.printed }

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.PrintExit):
			m.printed = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextPane):
			m.focus = (m.focus + 1) % 3
			m.applyFocus()
			return m, nil

		case key.Matches(msg, m.keys.PrevPane):
			m.focus = (m.focus + 2) % 3
			m.applyFocus()
			return m, nil

		case key.Matches(msg, m.keys.Run):
			return m, m.process(dsl.TriggerRun)

		case key.Matches(msg, m.keys.Copy):
			return m, copyOutput(m.result)

		case key.Matches(msg, m.keys.Orientation):
			m.vertical = !m.vertical
			m.layout()
			return m, nil

		case key.Matches(msg, m.keys.Live):
			m.live = !m.live
			if m.live && m.pending {
				return m, m.schedule()
			}
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			m.layout()
			return m, nil

		case msg.Type == tea.KeyEnter && m.focus == FocusCommand:
			return m, m.process(dsl.TriggerRun)
		}
		return m.updateFocused(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case startMsg:
		return m, m.process(dsl.TriggerRun)

	case debounceMsg:
		if msg.seq == m.seq && m.pending {
			return m, m.process(m.pendingTrg)
		}

	case processedMsg:
		m.running = false
		m.apply(msg)
		if m.queued {
			m.queued = false
			return m, m.process(m.queuedTrg)
		}

	case fileChangedMsg:
		if msg.err != nil {
			m.err = mdwerror.Wrap(msg.err, "reload failed").WithCode(mdwerror.CodeIO)
		} else if msg.text != m.input.Value() {
			m.input.SetValue(msg.text)
			m.notice = "reloaded"
			cmds = append(cmds, m.edited(dsl.TriggerInput))
		}
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.wait())
		}

	case clipboardMsg:
		if msg.err != nil {
			m.err = mdwerror.Wrap(msg.err, "copy failed").WithCode(mdwerror.CodeIO)
		} else {
			m.notice = "copied"
		}

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		m.command, cmd = m.command.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateFocused passes a key to the focused pane and schedules processing
// when its text changed
func (m Model) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusCommand:
		before := m.command.Value()
		m.command, cmd = m.command.Update(msg)
		if m.command.Value() != before {
			return m, tea.Batch(cmd, m.edited(dsl.TriggerCommand))
		}
	case FocusInput:
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return m, tea.Batch(cmd, m.edited(dsl.TriggerInput))
		}
	case FocusOutput:
		m.output, cmd = m.output.Update(msg)
	}
	return m, cmd
}

// edited records an edit; in live mode it schedules a run
func (m *Model) edited(trigger dsl.Trigger) tea.Cmd {
	if !m.pending || trigger > m.pendingTrg {
		m.pendingTrg = trigger
	}
	m.pending = true
	m.notice = ""
	if !m.live {
		return nil
	}
	return m.schedule()
}

func (m *Model) schedule() tea.Cmd {
	m.seq++
	seq := m.seq
	if m.debounce <= 0 {
		return func() tea.Msg { return debounceMsg{seq: seq} }
	}
	return tea.Tick(m.debounce, func(time.Time) tea.Msg { return debounceMsg{seq: seq} })
}

// process starts a run, or queues it while another run is active
func (m *Model) process(trigger dsl.Trigger) tea.Cmd {
	if m.pending && m.pendingTrg > trigger {
		trigger = m.pendingTrg
	}
	m.pending = false

	if m.running {
		if !m.queued || trigger > m.queuedTrg {
			m.queuedTrg = trigger
		}
		m.queued = true
		return nil
	}
	m.running = true

	engine, session := m.engine, m.session
	text, cmdText := m.input.Value(), m.command.Value()
	return func() tea.Msg {
		res, err := engine.Process(session, text, cmdText, trigger)
		in, out := engine.Syntax(session)
		return processedMsg{result: res, err: err, inSyntax: in, outSyntax: out}
	}
}

func (m *Model) apply(msg processedMsg) {
	m.inSyntax, m.outSyntax = msg.inSyntax, msg.outSyntax
	if msg.err != nil {
		m.err = msg.err
		m.logger.LogError(msg.err)
		return
	}
	m.err = nil
	m.cmd = msg.result.Command
	if msg.result.Unchanged {
		return
	}
	m.result = msg.result.Output
	m.output.SetContent(highlightOutput(stringx.AsPrintable(m.result), m.outSyntax, m.lexerThreshold))
}

func copyOutput(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}

func (m *Model) applyFocus() {
	m.command.Blur()
	m.input.Blur()
	switch m.focus {
	case FocusCommand:
		m.command.Focus()
	case FocusInput:
		m.input.Focus()
	}
}

// layout sizes the panes for the window
func (m *Model) layout() {
	if !m.ready {
		return
	}
	// header, command box, status bar and help line
	reserved := 1 + 3 + 1 + 1
	if m.showHelp {
		reserved += 3
	}
	paneH := m.height - reserved
	paneW := m.width
	if m.vertical {
		paneH /= 2
	} else {
		paneW /= 2
	}
	// borders and pane title
	innerW, innerH := max(paneW-2, 1), max(paneH-3, 1)

	m.input.SetWidth(innerW)
	m.input.SetHeight(innerH)
	m.output.Width = innerW
	m.output.Height = innerH
	m.command.Width = max(m.width-6, 1)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	in := m.renderPane(FocusInput, "INPUT", m.inSyntax, m.input.View())
	out := m.renderPane(FocusOutput, "OUTPUT", m.outSyntax, m.output.View())

	var panes string
	if m.vertical {
		panes = lipgloss.JoinVertical(lipgloss.Left, in, out)
	} else {
		panes = lipgloss.JoinHorizontal(lipgloss.Top, in, out)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		panes,
		m.renderCommand(),
		m.renderStatus(),
		HelpStyle.Render(m.help.View(m.keys)),
	)
}

func (m Model) renderHeader() string {
	mode := "live"
	if !m.live {
		mode = "manual"
	}
	return TitleStyle.Render("textomat") + " " + SubtitleStyle.Render(mode)
}

func (m Model) renderPane(f Focus, title, syntax, body string) string {
	style, titleStyle := PaneStyle, PaneTitleStyle
	if m.focus == f {
		style, titleStyle = FocusedPaneStyle, FocusedPaneTitleStyle
	}
	if syntax != "" {
		title += " (" + syntax + ")"
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body))
}

func (m Model) renderCommand() string {
	style := PaneStyle
	view := "> " + highlightCommand(m.command.Value())
	if m.focus == FocusCommand {
		style = FocusedPaneStyle
		view = m.command.View()
	}
	return style.Width(max(m.width-2, 1)).Render(view)
}

func (m Model) renderStatus() string {
	parts := []string{StatusKeyStyle.Render(m.focus.String())}

	if c := m.cmd; c != nil {
		parts = append(parts,
			"in:"+chain(c.Inputs),
			"out:"+chain(c.Outputs),
			"d:"+delimiter(c),
			fmt.Sprintf("h:%v", c.HasHeader),
			fmt.Sprintf("r:%v", c.Raw),
		)
	}
	if m.running {
		parts = append(parts, "running")
	}

	switch {
	case m.err != nil:
		parts = append(parts, RenderError(stringx.Truncate(errorText(m.err), max(m.width/2, statusErrorMin), "...")))
	case m.notice != "":
		parts = append(parts, StatusOKStyle.Render(m.notice))
	}
	return StatusBarStyle.Width(max(m.width, 1)).Render(strings.Join(parts, "  "))
}

// statusErrorMin is the least room an error gets in the status bar
const statusErrorMin = 20

func chain(ps []ast.Processor) string {
	if len(ps) == 0 {
		return "-"
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Alias
	}
	return strings.Join(names, ",")
}

func delimiter(c *command.ProcessedCommand) string {
	if c.Delimiter == nil {
		return "auto"
	}
	return fmt.Sprintf("%q", *c.Delimiter)
}

// errorText renders an error with its suggestion, if any
func errorText(err error) string {
	text := err.Error()
	if e, ok := mdwerror.As(err); ok {
		if hint, ok := e.Details()["suggestion"].(string); ok && hint != "" {
			text += " (" + hint + ")"
		}
	}
	return stringx.AsPrintable(text)
}

// Run starts the UI and blocks until it exits
func Run(opts Options) (Model, error) {
	m := New(opts)
	if opts.Path != "" {
		w, err := watchFile(opts.Path)
		if err != nil {
			m.logger.WarnWithErr("file watch disabled", err, mdwlog.Fields{"path": opts.Path})
		} else {
			defer w.Close()
			m.watcher = w
		}
	}

	m.logger.Info("UI started", mdwlog.Fields{"path": opts.Path, "live": m.live})
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.InputTTY {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		return m, mdwerror.Wrap(err, "UI failed").WithCode(mdwerror.CodeInternal)
	}
	fm, _ := final.(Model)
	m.logger.Info("UI stopped", mdwlog.Fields{"printed": fm.printed})
	return fm, nil
}
