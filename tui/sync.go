package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jackwu/spectra/reveal"
	"github.com/jackwu/spectra/schedule"
)

const BeepLength = 18 * time.Millisecond

// FlourishOffsets are the mouth pulses that ride along with the jingle notes.
var FlourishOffsets = []time.Duration{
	0,
	80 * time.Millisecond,
	160 * time.Millisecond,
	240 * time.Millisecond,
}

// flourishMsg is one of the staggered mouth pulses after a reply finishes.
type flourishMsg struct {
	key  schedule.Key
	step int
}

// BeepFrequency picks the tone for a tick so consecutive beeps wobble.
func BeepFrequency(cursor int) float64 {
	return float64(820 + (cursor%5)*40)
}

// handleReveal applies reveal events to the transcript, speaker and mouth.
// It runs before the engine's next tick is scheduled.
func (m *Model) handleReveal(events []reveal.Event) []tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range events {
		switch ev.Kind {
		case reveal.KindTick:
			m.rewritePending(ev.Prefix)
			if ev.Cursor%2 == 0 {
				m.sound.Pulse(BeepFrequency(ev.Cursor), BeepLength)
				var cmd tea.Cmd
				m.mouth, cmd = m.mouth.Pulse(m.tickPulse)
				cmds = append(cmds, cmd)
			}

		case reveal.KindDone:
			m.rewritePending(ev.Prefix)
			m.log.Info().Int("message", m.pending).Int("runes", ev.Cursor).Msg("reply finished")
			m.pending = -1
			m.sound.Jingle()
			key := m.flourish.Renew()
			for i, off := range FlourishOffsets {
				cmds = append(cmds, m.sched.After(off, flourishMsg{key: key, step: i}))
			}
		}
	}
	if len(events) > 0 {
		m.refreshTranscript()
	}
	return cmds
}

func (m *Model) handleFlourish(msg flourishMsg) tea.Cmd {
	if !m.flourish.Live(msg.key) {
		return nil
	}
	var cmd tea.Cmd
	m.mouth, cmd = m.mouth.Pulse(m.flourishPulse)
	return cmd
}

func (m *Model) rewritePending(text string) {
	if m.pending < 0 {
		return
	}
	if err := m.session.Rewrite(m.pending, text); err != nil {
		m.log.Error().Err(err).Msg("rewrite reply")
	}
}
