package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jackwu/spectra/config"
	"github.com/jackwu/spectra/model"
	"github.com/jackwu/spectra/mouth"
	"github.com/jackwu/spectra/reply"
	"github.com/jackwu/spectra/reveal"
	"github.com/jackwu/spectra/schedule"
	"github.com/jackwu/spectra/sfx"
)

const portraitWidth = 32

// Options wires the shell to its collaborators. Zero fields get defaults:
// the echo reply source, silence, tea.Tick scheduling and a no-op logger.
type Options struct {
	Config    *config.Config
	Session   *model.Session
	Replies   reply.Source
	Sound     sfx.Driver
	Scheduler schedule.Scheduler
	Logger    *zerolog.Logger
}

// ConfigReloadedMsg applies settings that can change while running.
type ConfigReloadedMsg struct {
	Config *config.Config
}

type Model struct {
	session *model.Session
	pending int // index of the assistant line being revealed, -1 when idle

	input      textinput.Model
	transcript viewport.Model

	reveal   reveal.Model
	mouth    mouth.Model
	flourish schedule.Series

	replies reply.Source
	sound   sfx.Driver
	sched   schedule.Scheduler
	log     zerolog.Logger
	keys    keyMap

	tickPulse     time.Duration
	flourishPulse time.Duration
	crt           crt

	width    int
	height   int
	quitting bool
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Session == nil {
		opts.Session = model.NewSession()
	}
	if opts.Replies == nil {
		opts.Replies = reply.NewEcho(cfg.Reply.Format, cfg.Reply.Placeholder)
	}
	if opts.Sound == nil {
		opts.Sound = sfx.Silent{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.Tick{}
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "tui").Logger()
	}

	ti := textinput.New()
	ti.Placeholder = cfg.UI.Placeholder
	ti.CharLimit = 500
	ti.Prompt = ""
	ti.TextStyle = inputTextStyle
	ti.Cursor.Style = inputTextStyle
	ti.Focus()

	if opts.Session.Len() == 0 {
		opts.Session.Append(model.RoleSystem, "SYSTEM: Spectra Communicator Online")
		opts.Session.Append(model.RoleSystem, "AI Chat Ready")
	}

	m := Model{
		session:       opts.Session,
		pending:       -1,
		input:         ti,
		transcript:    viewport.New(80, 20),
		reveal:        reveal.New(cfg.Reveal.CharDelay, opts.Scheduler),
		mouth:         mouth.New(opts.Scheduler),
		flourish:      schedule.NewSeries(),
		replies:       opts.Replies,
		sound:         opts.Sound,
		sched:         opts.Scheduler,
		log:           log,
		keys:          defaultKeyMap(),
		tickPulse:     cfg.Mouth.TickPulse,
		flourishPulse: cfg.Mouth.FlourishPulse,
		crt:           newCRT(cfg.UI.Scanlines),
		width:         120,
		height:        30,
	}
	m.layout()
	m.refreshTranscript()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.crt.next(m.sched))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case reveal.TickMsg:
		var events []reveal.Event
		var next tea.Cmd
		m.reveal, events, next = m.reveal.Update(msg)
		cmds := m.handleReveal(events)
		return m, tea.Batch(append(cmds, next)...)

	case mouth.CloseMsg:
		m.mouth = m.mouth.Update(msg)
		return m, nil

	case flourishMsg:
		return m, m.handleFlourish(msg)

	case crtMsg:
		return m, m.handleCRT(msg)

	case ConfigReloadedMsg:
		return m, m.applyConfig(msg.Config)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		cmd := m.submit()
		return m, cmd

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit appends the user line, asks the reply source and starts revealing
// the answer. Blank input is ignored.
func (m *Model) submit() tea.Cmd {
	content := m.input.Value()
	if strings.TrimSpace(content) == "" {
		return nil
	}
	m.input.SetValue("")

	m.session.Append(model.RoleUser, content)
	text := m.replies.Reply(content)
	m.pending = m.session.Append(model.RoleAssistant, "")
	m.flourish.Renew()

	var events []reveal.Event
	var next tea.Cmd
	m.reveal, events, next = m.reveal.Start(text)
	m.log.Info().
		Int("message", m.pending).
		Int("runes", m.reveal.Len()).
		Msg("reply started")

	cmds := m.handleReveal(events)
	m.refreshTranscript()
	m.transcript.GotoBottom()
	return tea.Batch(append(cmds, next)...)
}

func (m *Model) applyConfig(cfg *config.Config) tea.Cmd {
	if cfg == nil {
		return nil
	}
	m.reveal.SetDelay(cfg.Reveal.CharDelay)
	m.tickPulse = cfg.Mouth.TickPulse
	m.flourishPulse = cfg.Mouth.FlourishPulse
	if mutable, ok := m.sound.(interface{ SetMuted(bool) }); ok {
		mutable.SetMuted(!cfg.Audio.Enabled)
	}
	m.log.Info().
		Dur("char_delay", m.reveal.Delay()).
		Bool("audio", cfg.Audio.Enabled).
		Msg("config reloaded")
	return m.setScanlines(cfg.UI.Scanlines)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	leftWidth := m.width - portraitWidth - 1
	sep := frameStyle.Render(strings.Repeat("─", max(0, leftWidth-4)))
	left := frame("COMMUNICATION LOG", m.transcript.View()+"\n"+sep+"\n"+m.inputBar(), leftWidth)
	right := frame("S-P-E-C-T-R-A", renderPortrait(m.mouth.Open(), m.crt.frame()), portraitWidth)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	help := helpStyle.Render("  enter: send  pgup/pgdn: scroll  esc: quit")
	return body + "\n" + help
}

func (m Model) inputBar() string {
	return promptStyle.Render("> ") + m.input.View() + " " + sendStyle.Render("SEND")
}

// layout sizes the transcript and input to the window.
func (m *Model) layout() {
	leftWidth := m.width - portraitWidth - 1
	inner := max(10, leftWidth-4) // borders and padding
	// top and bottom border, separator, input line, help line
	m.transcript.Width = inner
	m.transcript.Height = max(3, m.height-5)
	m.input.Width = max(5, inner-len("> ")-len(" SEND ")-2)
}

// Session exposes the conversation log, e.g. for logging at exit.
func (m Model) Session() *model.Session {
	return m.session
}

// Talking reports whether the portrait's mouth is open.
func (m Model) Talking() bool {
	return m.mouth.Open()
}

// Revealing reports whether a reply is still being typed out.
func (m Model) Revealing() bool {
	return m.reveal.Active()
}
