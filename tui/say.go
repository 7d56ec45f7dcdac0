package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jackwu/spectra/reply"
	"github.com/jackwu/spectra/reveal"
	"github.com/jackwu/spectra/schedule"
	"github.com/jackwu/spectra/sfx"
)

// SayOptions configures the headless reveal used by `spectra say`.
type SayOptions struct {
	Inputs    []string
	Replies   reply.Source
	Sound     sfx.Driver
	Scheduler schedule.Scheduler
	Out       io.Writer
	CharDelay time.Duration
	Logger    zerolog.Logger
}

// nextInputMsg moves on to the following input once the jingle has played.
type nextInputMsg struct{}

// sayModel types replies to a plain writer, one input after another.
type sayModel struct {
	opts    SayOptions
	queue   []string
	reveal  reveal.Model
	printed int // bytes of the current reply already written
	first   tea.Cmd
}

func newSayModel(opts SayOptions) sayModel {
	if opts.Replies == nil {
		opts.Replies = reply.NewEcho("", "")
	}
	if opts.Sound == nil {
		opts.Sound = sfx.Silent{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.Tick{}
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	var queue []string
	for _, in := range opts.Inputs {
		if strings.TrimSpace(in) != "" {
			queue = append(queue, in)
		}
	}
	m := sayModel{
		opts:   opts,
		queue:  queue,
		reveal: reveal.New(opts.CharDelay, opts.Scheduler),
	}
	m.first = m.startNext()
	return m
}

func (m sayModel) Init() tea.Cmd {
	return m.first
}

func (m sayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reveal.TickMsg:
		var events []reveal.Event
		var next tea.Cmd
		m.reveal, events, next = m.reveal.Update(msg)
		cmd := m.handle(events)
		return m, tea.Batch(cmd, next)

	case nextInputMsg:
		return m, m.startNext()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m sayModel) View() string { return "" }

// startNext pops the next input and begins its reveal, or quits when the
// queue is empty.
func (m *sayModel) startNext() tea.Cmd {
	if len(m.queue) == 0 {
		return tea.Quit
	}
	input := m.queue[0]
	m.queue = m.queue[1:]

	text := m.opts.Replies.Reply(input)
	fmt.Fprintf(m.opts.Out, "USER> %s\nAI> ", input)
	m.printed = 0
	m.opts.Logger.Debug().Str("input", input).Msg("say")

	var events []reveal.Event
	var next tea.Cmd
	m.reveal, events, next = m.reveal.Start(text)
	return tea.Batch(m.handle(events), next)
}

func (m *sayModel) handle(events []reveal.Event) tea.Cmd {
	var cmd tea.Cmd
	for _, ev := range events {
		io.WriteString(m.opts.Out, ev.Prefix[m.printed:])
		m.printed = len(ev.Prefix)

		switch ev.Kind {
		case reveal.KindTick:
			if ev.Cursor%2 == 0 {
				m.opts.Sound.Pulse(BeepFrequency(ev.Cursor), BeepLength)
			}
		case reveal.KindDone:
			io.WriteString(m.opts.Out, "\n")
			m.opts.Sound.Jingle()
			cmd = m.opts.Scheduler.After(sfx.JingleLength(), nextInputMsg{})
		}
	}
	return cmd
}

// Say reveals the reply to each input on opts.Out without taking over the
// terminal, waiting for each jingle before the next input.
func Say(ctx context.Context, opts SayOptions) error {
	p := tea.NewProgram(newSayModel(opts),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("say: %w", err)
	}
	return nil
}
