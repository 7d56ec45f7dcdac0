package sfx

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OpenOto returns an Opener backed by the system audio device. The device
// must report ready within timeout.
func OpenOto(timeout time.Duration) Opener {
	return func(sampleRate int) (Output, error) {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return nil, fmt.Errorf("open audio context: %w", err)
		}

		select {
		case <-ready:
		case <-time.After(timeout):
			return nil, fmt.Errorf("audio device not ready after %s", timeout)
		}
		return &otoOutput{ctx: ctx}, nil
	}
}

type otoOutput struct {
	mu      sync.Mutex
	ctx     *oto.Context
	players []*oto.Player
}

func (o *otoOutput) Play(pcm []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.reap()
	p := o.ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	// players must stay referenced until they finish
	o.players = append(o.players, p)
	return nil
}

// reap closes players that have finished. Callers hold o.mu.
func (o *otoOutput) reap() {
	live := o.players[:0]
	for _, p := range o.players {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		_ = p.Close()
	}
	o.players = live
}

func (o *otoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	for _, p := range o.players {
		errs = append(errs, p.Close())
	}
	o.players = nil
	errs = append(errs, o.ctx.Suspend())
	return errors.Join(errs...)
}
