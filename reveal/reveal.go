// Package reveal implements the typewriter engine: it walks a cursor over a
// reply one rune per delay interval and reports each step as an Event.
package reveal

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jackwu/spectra/schedule"
)

// MinDelay is the shortest interval between ticks.
const MinDelay = time.Millisecond

// Kind tells tick events from the completion event.
type Kind int

const (
	KindTick Kind = iota + 1
	KindDone
)

func (k Kind) String() string {
	switch k {
	case KindTick:
		return "tick"
	case KindDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is a notification produced by Start or Update. The parent model must
// handle events before the returned command runs.
type Event struct {
	Kind   Kind
	Key    schedule.Key // sequence the event belongs to
	Cursor int
	Prefix string
}

// TickMsg advances the sequence identified by its key.
type TickMsg struct {
	key schedule.Key
}

// Model holds the reveal state. A zero Model is unusable, use New.
type Model struct {
	delay  time.Duration
	sched  schedule.Scheduler
	series schedule.Series

	text   []rune
	cursor int
	active bool
}

// New returns an idle engine ticking every delay. Non-positive delays are
// raised to MinDelay.
func New(delay time.Duration, sched schedule.Scheduler) Model {
	return Model{
		delay:  clamp(delay),
		sched:  sched,
		series: schedule.NewSeries(),
	}
}

// Start begins revealing text from the first rune, abandoning any sequence
// still in flight. Empty text completes immediately.
func (m Model) Start(text string) (Model, []Event, tea.Cmd) {
	key := m.series.Renew()
	m.text = []rune(text)
	m.cursor = 0

	if len(m.text) == 0 {
		m.active = false
		return m, []Event{{Kind: KindDone, Key: key}}, nil
	}

	m.active = true
	return m, nil, m.sched.After(m.delay, TickMsg{key: key})
}

// Update handles TickMsg. Messages from abandoned sequences are dropped.
func (m Model) Update(msg tea.Msg) (Model, []Event, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || !m.active || !m.series.Live(tick.key) {
		return m, nil, nil
	}

	m.cursor++
	events := []Event{{
		Kind:   KindTick,
		Key:    tick.key,
		Cursor: m.cursor,
		Prefix: string(m.text[:m.cursor]),
	}}

	if m.cursor >= len(m.text) {
		m.active = false
		events = append(events, Event{
			Kind:   KindDone,
			Key:    tick.key,
			Cursor: m.cursor,
			Prefix: string(m.text),
		})
		return m, events, nil
	}

	return m, events, m.sched.After(m.delay, TickMsg{key: tick.key})
}

// SetDelay changes the cadence from the next scheduled tick on.
func (m *Model) SetDelay(d time.Duration) {
	m.delay = clamp(d)
}

func (m Model) Delay() time.Duration { return m.delay }
func (m Model) Active() bool         { return m.active }
func (m Model) Cursor() int          { return m.cursor }
func (m Model) Len() int             { return len(m.text) }
func (m Model) Text() string         { return string(m.text) }
func (m Model) Key() schedule.Key    { return m.series.Key() }

// Prefix returns the part of the text revealed so far.
func (m Model) Prefix() string {
	return string(m.text[:m.cursor])
}

func clamp(d time.Duration) time.Duration {
	if d < MinDelay {
		return MinDelay
	}
	return d
}
