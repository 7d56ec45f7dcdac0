// Package sfx synthesizes the 8-bit style beeps and jingle that accompany a
// reveal. Output is opened in the background on first use and any failure
// leaves the player silent instead of surfacing an error.
package sfx

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Driver is what the reveal glue talks to.
type Driver interface {
	Pulse(freqHz float64, d time.Duration)
	Jingle()
}

// Output plays one PCM buffer without blocking.
type Output interface {
	Play(pcm []byte) error
	Close() error
}

// Opener acquires an Output for mono s16le PCM at sampleRate.
type Opener func(sampleRate int) (Output, error)

type Options struct {
	SampleRate int
	Volume     float64 // 0..1, scales every gain
	Opener     Opener
	Logger     zerolog.Logger
}

// Player implements Driver on a lazily opened Output. The output is opened
// on a background goroutine so sounds never wait on the device. Sounds
// requested before it is ready are dropped.
type Player struct {
	mu     sync.Mutex
	opts   Options
	out    Output
	state  openState
	opened chan struct{} // closed once the open attempt has settled
	muted  bool
	played int
}

type openState int

const (
	stateIdle openState = iota
	stateOpening
	stateReady
	stateFailed
)

func NewPlayer(opts Options) *Player {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	return &Player{opts: opts}
}

// Prepare starts opening the output ahead of the first sound.
func (p *Player) Prepare() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startOpen()
}

func (p *Player) Pulse(freqHz float64, d time.Duration) {
	p.play(func(vol float64, rate int) []float64 {
		return Tone(freqHz, d, BeepGain*vol, rate)
	})
}

func (p *Player) Jingle() {
	p.play(func(vol float64, rate int) []float64 {
		return Jingle(NoteGain*vol, rate)
	})
}

// SetMuted turns sound off without releasing the output.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Played counts buffers handed to the output.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Close waits for a pending open to settle and releases the output.
func (p *Player) Close() error {
	p.wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = stateFailed
	if p.out == nil {
		return nil
	}
	err := p.out.Close()
	p.out = nil
	return err
}

// wait blocks until any open attempt has finished.
func (p *Player) wait() {
	p.mu.Lock()
	opened := p.opened
	p.mu.Unlock()
	if opened != nil {
		<-opened
	}
}

func (p *Player) play(render func(vol float64, rate int) []float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.muted || p.opts.Volume <= 0 {
		return
	}
	if p.state != stateReady {
		p.startOpen()
		return
	}
	pcm := Encode(render(p.opts.Volume, p.opts.SampleRate))
	if err := p.out.Play(pcm); err != nil {
		p.opts.Logger.Debug().Err(err).Msg("play failed")
		return
	}
	p.played++
}

// startOpen launches the open attempt once. Callers hold p.mu.
func (p *Player) startOpen() {
	if p.state != stateIdle {
		return
	}
	if p.opts.Opener == nil {
		p.state = stateFailed
		return
	}
	p.state = stateOpening
	p.opened = make(chan struct{})
	go p.open(p.opened)
}

func (p *Player) open(done chan struct{}) {
	defer close(done)

	out, err := p.callOpener()
	if err == nil && out == nil {
		err = fmt.Errorf("audio opener returned no output")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = stateFailed
		p.opts.Logger.Warn().Err(err).Msg("audio output unavailable, staying silent")
		return
	}
	if p.state != stateOpening {
		// closed while opening
		_ = out.Close()
		return
	}
	p.out = out
	p.state = stateReady
	p.opts.Logger.Debug().Int("sample_rate", p.opts.SampleRate).Msg("audio output opened")
}

// callOpener turns an opener panic into an error.
func (p *Player) callOpener() (out Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("audio driver panic: %v", r)
		}
	}()
	return p.opts.Opener(p.opts.SampleRate)
}

// Silent is a Driver that does nothing.
type Silent struct{}

func (Silent) Pulse(float64, time.Duration) {}
func (Silent) Jingle()                      {}
