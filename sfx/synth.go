package sfx

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	BeepGain    = 0.08
	NoteGain    = 0.06
	NoteLength  = 120 * time.Millisecond
	NoteStagger = 80 * time.Millisecond
)

// JingleNotes is the ascending C major arpeggio played when a reply finishes.
var JingleNotes = []float64{523.25, 659.25, 783.99, 1046.5}

// JingleLength is the total length of the mixed jingle.
func JingleLength() time.Duration {
	return time.Duration(len(JingleNotes)-1)*NoteStagger + NoteLength
}

func sampleCount(d time.Duration, rate int) int {
	if d <= 0 || rate <= 0 {
		return 0
	}
	return int(int64(d) * int64(rate) / int64(time.Second))
}

// Tone renders a square wave of freq Hz lasting d.
func Tone(freq float64, d time.Duration, gain float64, rate int) []float64 {
	n := sampleCount(d, rate)
	buf := make([]float64, n)
	if freq <= 0 {
		return buf
	}
	for i := range buf {
		_, frac := math.Modf(freq * float64(i) / float64(rate))
		if frac < 0.5 {
			buf[i] = gain
		} else {
			buf[i] = -gain
		}
	}
	return buf
}

// Jingle mixes JingleNotes into a single buffer, each note NoteStagger after
// the previous one.
func Jingle(gain float64, rate int) []float64 {
	buf := make([]float64, sampleCount(JingleLength(), rate))
	for i, f := range JingleNotes {
		note := Tone(f, NoteLength, gain, rate)
		off := sampleCount(time.Duration(i)*NoteStagger, rate)
		for j, v := range note {
			if off+j < len(buf) {
				buf[off+j] += v
			}
		}
	}
	return buf
}

// Encode converts samples in [-1, 1] to signed 16-bit little-endian PCM.
func Encode(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		v = math.Max(-1, math.Min(1, v))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return out
}
