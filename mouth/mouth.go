// Package mouth keeps the portrait's talking state in step with reveal
// events. A pulse opens the mouth and only the latest pulse decides when it
// closes again.
package mouth

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jackwu/spectra/schedule"
)

// CloseMsg closes the mouth if it belongs to the latest pulse.
type CloseMsg struct {
	key schedule.Key
}

type Model struct {
	sched  schedule.Scheduler
	series schedule.Series
	open   bool
	pulses int
}

func New(sched schedule.Scheduler) Model {
	return Model{sched: sched, series: schedule.NewSeries()}
}

// Pulse opens the mouth for d, replacing any close still pending.
func (m Model) Pulse(d time.Duration) (Model, tea.Cmd) {
	key := m.series.Renew()
	m.open = true
	m.pulses++
	return m, m.sched.After(d, CloseMsg{key: key})
}

func (m Model) Update(msg tea.Msg) Model {
	if c, ok := msg.(CloseMsg); ok && m.series.Live(c.key) {
		m.open = false
	}
	return m
}

func (m Model) Open() bool { return m.open }

// Pulses counts every pulse since construction.
func (m Model) Pulses() int { return m.pulses }
