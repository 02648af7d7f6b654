// Package audio plays short synthesized chimes when a level is finished.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// SampleRate is the rate of every generated stream.
const SampleRate = beep.SampleRate(44100)

// Note is one tone of a chime.
type Note struct {
	Freq     float64
	Duration time.Duration
}

// Chime notes, rising for a win and falling for a skip.
var (
	WinNotes = []Note{
		{Freq: 523.25, Duration: 90 * time.Millisecond},
		{Freq: 659.25, Duration: 90 * time.Millisecond},
		{Freq: 783.99, Duration: 220 * time.Millisecond},
	}
	SkipNotes = []Note{
		{Freq: 392.00, Duration: 80 * time.Millisecond},
		{Freq: 293.66, Duration: 140 * time.Millisecond},
	}
)

// tone is a sine wave with an exponential decay that ends after its
// duration.
type tone struct {
	freq  float64
	rate  beep.SampleRate
	pos   int
	total int
	decay float64
}

// NewTone creates a single decaying sine tone.
func NewTone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(d)
	return &tone{
		freq:  freq,
		rate:  rate,
		total: total,
		// down to about 1% at the end
		decay: math.Log(100) / math.Max(float64(total), 1),
	}
}

func (g *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		t := float64(g.pos) / float64(g.rate)
		v := 0.3 * math.Exp(-g.decay*float64(g.pos)) * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *tone) Err() error { return nil }

// NewChime plays notes one after another.
func NewChime(notes []Note, rate beep.SampleRate) beep.Streamer {
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		streamers = append(streamers, NewTone(n.Freq, n.Duration, rate))
	}
	return beep.Seq(streamers...)
}

// Length returns the number of samples notes produce at rate.
func Length(notes []Note, rate beep.SampleRate) int {
	n := 0
	for _, note := range notes {
		n += rate.N(note.Duration)
	}
	return n
}
