package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jackwu/spectra/schedule"
)

// CRT overlay timing: the flicker cycle is 3s and the scanlines roll one
// row every 1.5s.
const (
	crtStep      = 150 * time.Millisecond
	flickerSteps = 20
	scanSteps    = 10
)

type crtMsg struct {
	key schedule.Key
}

// crt animates the scanline overlay on the portrait.
type crt struct {
	series schedule.Series
	on     bool
	step   int
}

func newCRT(on bool) crt {
	c := crt{series: schedule.NewSeries(), on: on}
	c.series.Renew()
	return c
}

// frame is what the portrait needs to draw the current step.
func (c crt) frame() crtFrame {
	if !c.on {
		return crtFrame{}
	}
	s := c.step % flickerSteps
	return crtFrame{
		scanlines: true,
		offset:    (c.step / scanSteps) % 2,
		flicker:   s == 4 || s == 16,
	}
}

type crtFrame struct {
	scanlines bool
	offset    int
	flicker   bool
}

// next schedules the following step, or nothing while the overlay is off.
func (c crt) next(sched schedule.Scheduler) tea.Cmd {
	if !c.on {
		return nil
	}
	return sched.After(crtStep, crtMsg{key: c.series.Key()})
}

func (m *Model) handleCRT(msg crtMsg) tea.Cmd {
	if !m.crt.on || !m.crt.series.Live(msg.key) {
		return nil
	}
	m.crt.step++
	return m.crt.next(m.sched)
}

// setScanlines switches the overlay, restarting or cancelling its ticks.
func (m *Model) setScanlines(on bool) tea.Cmd {
	if on == m.crt.on {
		return nil
	}
	m.crt.on = on
	m.crt.step = 0
	m.crt.series.Renew()
	return m.crt.next(m.sched)
}
