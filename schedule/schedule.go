// Package schedule hands out keys for timed messages so a component can
// cancel everything it scheduled by renewing its series.
package schedule

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastOwner int64

// Key identifies one scheduled message: the owner it belongs to and the
// generation of that owner's series when it was issued.
type Key struct {
	Owner int
	Gen   int
}

// Series issues keys for a single owner. Renewing it makes every key issued
// before stale.
type Series struct {
	owner int
	gen   int
}

// NewSeries returns a series with a process-unique owner id.
func NewSeries() Series {
	return Series{owner: int(atomic.AddInt64(&lastOwner, 1))}
}

// Renew bumps the generation and returns the new current key.
func (s *Series) Renew() Key {
	s.gen++
	return s.Key()
}

// Key returns the current key without renewing.
func (s Series) Key() Key {
	return Key{Owner: s.owner, Gen: s.gen}
}

// Live reports whether k was issued by this series and not yet superseded.
func (s Series) Live(k Key) bool {
	return k.Owner == s.owner && k.Gen == s.gen
}

// Scheduler delivers msg to the program after d.
type Scheduler interface {
	After(d time.Duration, msg tea.Msg) tea.Cmd
}

// Tick is the production Scheduler built on tea.Tick.
type Tick struct{}

func (Tick) After(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}
