package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jackwu/spectra/config"
	"github.com/jackwu/spectra/model"
	"github.com/jackwu/spectra/reply"
	"github.com/jackwu/spectra/schedule/schedtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type soundRecorder struct {
	pulses  []float64
	jingles int
	muted   bool
}

func (s *soundRecorder) Pulse(freq float64, _ time.Duration) { s.pulses = append(s.pulses, freq) }
func (s *soundRecorder) Jingle()                             { s.jingles++ }
func (s *soundRecorder) SetMuted(muted bool)                 { s.muted = muted }

type harness struct {
	t          *testing.T
	m          Model
	tl         *schedtest.Timeline
	sound      *soundRecorder
	flourishes []time.Duration
}

func newHarness(t *testing.T, replies reply.Source) *harness {
	tl := schedtest.New()
	sound := &soundRecorder{}
	m := NewModel(Options{
		Replies:   replies,
		Sound:     sound,
		Scheduler: tl,
	})
	return &harness{t: t, m: m, tl: tl, sound: sound}
}

func (h *harness) deliver(msg tea.Msg) {
	if fm, ok := msg.(flourishMsg); ok && h.m.flourish.Live(fm.key) {
		h.flourishes = append(h.flourishes, h.tl.Now())
	}
	next, _ := h.m.Update(msg)
	h.m = next.(Model)
}

func (h *harness) advance(d time.Duration) {
	h.tl.Advance(d, h.deliver)
}

func (h *harness) send(text string) {
	if text != "" {
		h.deliver(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	}
	h.deliver(tea.KeyMsg{Type: tea.KeyEnter})
}

func (h *harness) text(idx int) string {
	msg, ok := h.m.Session().At(idx)
	require.True(h.t, ok, "message %d", idx)
	return msg.Text
}

func TestNewModelGreets(t *testing.T) {
	h := newHarness(t, nil)
	msgs := h.m.Session().Messages()

	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
	assert.Equal(t, "SYSTEM: Spectra Communicator Online", msgs[0].Text)
	assert.Equal(t, "AI Chat Ready", msgs[1].Text)
	assert.False(t, h.m.Revealing())
	assert.False(t, h.m.Talking())
}

func TestSubmitHelloRevealsEchoRuneByRune(t *testing.T) {
	h := newHarness(t, nil)
	h.send("hello")

	msgs := h.m.Session().Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, model.RoleUser, msgs[2].Role)
	assert.Equal(t, "hello", msgs[2].Text)
	assert.Equal(t, model.RoleAssistant, msgs[3].Role)
	assert.Equal(t, "", msgs[3].Text)
	assert.Equal(t, "", h.m.input.Value())

	want := []rune("了解。「hello」。こちらはデモの応答です。")
	for i := 1; i <= len(want); i++ {
		h.advance(18 * time.Millisecond)
		assert.Equal(t, string(want[:i]), h.text(3), "after tick %d", i)
	}

	assert.False(t, h.m.Revealing())
	assert.Len(t, h.sound.pulses, len(want)/2)
	assert.Equal(t, 1, h.sound.jingles)

	doneAt := time.Duration(len(want)) * 18 * time.Millisecond
	h.advance(300 * time.Millisecond)
	require.Len(t, h.flourishes, 4)
	for i, at := range h.flourishes {
		assert.Equal(t, FlourishOffsets[i], at-doneAt)
	}
}

func TestMouthClosesAfterLastFlourish(t *testing.T) {
	h := newHarness(t, reply.Func(func(string) string { return "A" }))
	h.send("x")

	h.advance(18 * time.Millisecond)
	require.False(t, h.m.Revealing())
	assert.True(t, h.m.Talking())

	// last flourish at +240ms, pulse of 110ms
	h.advance(349 * time.Millisecond)
	assert.True(t, h.m.Talking())
	h.advance(time.Millisecond)
	assert.False(t, h.m.Talking())
	assert.Equal(t, 4, h.m.mouth.Pulses())
}

func TestBeepOnEvenCursorOnly(t *testing.T) {
	h := newHarness(t, reply.Func(func(string) string { return "AB" }))
	h.send("x")

	h.advance(18 * time.Millisecond)
	assert.Equal(t, "A", h.text(3))
	assert.Empty(t, h.sound.pulses)
	assert.False(t, h.m.Talking())

	h.advance(18 * time.Millisecond)
	assert.Equal(t, "AB", h.text(3))
	assert.Equal(t, []float64{900}, h.sound.pulses)
	assert.True(t, h.m.Talking())
	assert.Equal(t, 1, h.sound.jingles)
}

func TestBeepFrequency(t *testing.T) {
	assert.Equal(t, 820.0, BeepFrequency(0))
	assert.Equal(t, 900.0, BeepFrequency(2))
	assert.Equal(t, 980.0, BeepFrequency(4))
	assert.Equal(t, 860.0, BeepFrequency(6))
}

func TestBlankSubmitIsNoop(t *testing.T) {
	for _, input := range []string{"", "   "} {
		h := newHarness(t, nil)
		h.send(input)

		assert.Equal(t, 2, h.m.Session().Len(), "input %q", input)
		assert.False(t, h.m.Revealing())
		assert.Zero(t, h.tl.Pending())
		assert.Equal(t, input, h.m.input.Value())
	}
}

func TestNewSubmitSupersedesReveal(t *testing.T) {
	h := newHarness(t, reply.Func(func(in string) string {
		if in == "first" {
			return "abcdefghij"
		}
		return "XY"
	}))

	h.send("first")
	h.advance(3 * 18 * time.Millisecond)
	require.Equal(t, "abc", h.text(3))

	h.send("second")
	require.Equal(t, 6, h.m.Session().Len())
	assert.Equal(t, "second", h.text(4))
	assert.Equal(t, "", h.text(5))

	h.advance(time.Second)
	assert.Equal(t, "abc", h.text(3), "abandoned reply keeps its last prefix")
	assert.Equal(t, "XY", h.text(5))
	assert.Equal(t, 1, h.sound.jingles)
	assert.Len(t, h.flourishes, 4)
}

func TestNewSubmitCancelsPendingFlourish(t *testing.T) {
	h := newHarness(t, reply.Func(func(string) string { return "A" }))

	h.send("x")
	h.advance(18 * time.Millisecond)
	h.advance(100 * time.Millisecond)
	require.Equal(t, 2, h.m.mouth.Pulses())

	h.send("y")
	h.advance(time.Second)

	// two from the first flourish, four from the second
	assert.Equal(t, 6, h.m.mouth.Pulses())
	assert.Equal(t, 2, h.sound.jingles)
}

func TestEmptyReplyCompletesImmediately(t *testing.T) {
	h := newHarness(t, reply.Func(func(string) string { return "" }))
	h.send("x")

	assert.False(t, h.m.Revealing())
	assert.Equal(t, "", h.text(3))
	assert.Equal(t, 1, h.sound.jingles)
	assert.Equal(t, 4, h.tl.Pending(), "only the flourish pulses are scheduled")
}

func TestConfigReload(t *testing.T) {
	h := newHarness(t, nil)
	cfg := config.Default()
	cfg.Reveal.CharDelay = 50 * time.Millisecond
	cfg.Audio.Enabled = false

	h.deliver(ConfigReloadedMsg{Config: cfg})
	assert.True(t, h.sound.muted)

	h.send("hi")
	due, ok := h.tl.NextDue()
	require.True(t, ok)
	assert.Equal(t, 50*time.Millisecond, due)
}

func TestQuitKey(t *testing.T) {
	h := newHarness(t, nil)
	next, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestViewShowsFramesAndTranscript(t *testing.T) {
	h := newHarness(t, reply.Func(func(string) string { return "ok" }))
	h.deliver(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.send("ping")
	h.advance(time.Second)

	view := h.m.View()
	for _, want := range []string{
		"COMMUNICATION LOG",
		"S-P-E-C-T-R-A",
		"SYSTEM: Spectra Communicator Online",
		"USER> ping",
		"AI> ok",
		"SPECTRA",
		"SEND",
	} {
		assert.Contains(t, view, want)
	}
}

func TestSmallWindowDoesNotPanic(t *testing.T) {
	h := newHarness(t, nil)
	assert.NotPanics(t, func() {
		h.deliver(tea.WindowSizeMsg{Width: 0, Height: 0})
		_ = h.m.View()
	})
}

func TestPortraitMouth(t *testing.T) {
	open := renderPortrait(true, crtFrame{})
	closed := renderPortrait(false, crtFrame{})

	assert.NotEqual(t, open, closed)
	assert.Contains(t, open, "SPECTRA")
	assert.Equal(t, gridHeight+2, strings.Count(open, "\n")+1)
}
