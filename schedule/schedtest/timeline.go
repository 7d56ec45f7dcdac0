// Package schedtest provides a virtual clock for driving scheduled messages
// in tests without sleeping.
package schedtest

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type entry struct {
	at    time.Duration
	order int
	msg   tea.Msg
}

// Timeline implements schedule.Scheduler on virtual time. Messages are
// recorded when After is called and handed out by Advance in due order.
type Timeline struct {
	now     time.Duration
	seq     int
	pending []entry
}

func New() *Timeline {
	return &Timeline{}
}

func (t *Timeline) After(d time.Duration, msg tea.Msg) tea.Cmd {
	if d < 0 {
		d = 0
	}
	t.seq++
	t.pending = append(t.pending, entry{at: t.now + d, order: t.seq, msg: msg})
	return func() tea.Msg { return nil }
}

// Now returns the elapsed virtual time.
func (t *Timeline) Now() time.Duration {
	return t.now
}

// Pending returns how many messages are still waiting.
func (t *Timeline) Pending() int {
	return len(t.pending)
}

// NextDue returns the delay until the earliest pending message.
func (t *Timeline) NextDue() (time.Duration, bool) {
	if len(t.pending) == 0 {
		return 0, false
	}
	t.sort()
	return t.pending[0].at - t.now, true
}

// Advance moves the clock forward by d, passing each message that falls due
// to deliver with the clock set to its due time. Messages scheduled from
// inside deliver are picked up if they fall within the window.
func (t *Timeline) Advance(d time.Duration, deliver func(tea.Msg)) {
	target := t.now + d
	for {
		if len(t.pending) == 0 {
			break
		}
		t.sort()
		next := t.pending[0]
		if next.at > target {
			break
		}
		t.pending = t.pending[1:]
		t.now = next.at
		deliver(next.msg)
	}
	t.now = target
}

// Drain delivers everything until nothing is pending, giving up after limit
// messages. It returns the number of messages delivered.
func (t *Timeline) Drain(limit int, deliver func(tea.Msg)) int {
	n := 0
	for n < limit {
		due, ok := t.NextDue()
		if !ok {
			break
		}
		t.sort()
		next := t.pending[0]
		t.pending = t.pending[1:]
		t.now += due
		deliver(next.msg)
		n++
	}
	return n
}

func (t *Timeline) sort() {
	sort.SliceStable(t.pending, func(i, j int) bool {
		if t.pending[i].at != t.pending[j].at {
			return t.pending[i].at < t.pending[j].at
		}
		return t.pending[i].order < t.pending[j].order
	})
}
