package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/tomz197/balloonpop/internal/object"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a single oscillator that sweeps linearly from one frequency to
// another and fades in and out. It drains after its duration.
type tone struct {
	wave     Wave
	from, to float64
	rate     beep.SampleRate
	total    int
	attack   int
	release  int
	pos      int
	phase    float64
	rng      *rand.Rand
}

func newTone(wave Wave, from, to float64, d, attack, release time.Duration, rate beep.SampleRate) *tone {
	return &tone{
		wave:    wave,
		from:    from,
		to:      to,
		rate:    rate,
		total:   rate.N(d),
		attack:  rate.N(attack),
		release: rate.N(release),
		rng:     rand.New(rand.NewSource(int64(from*1000 + to))),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		var v float64
		switch t.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			if t.phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case WaveSaw:
			v = 2 * (t.phase - 0.5)
		case WaveNoise:
			v = t.rng.Float64()*2 - 1
		}
		v *= t.envelope()

		samples[i][0] = v
		samples[i][1] = v

		progress := float64(t.pos) / float64(t.total)
		freq := t.from + (t.to-t.from)*progress
		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// envelope is the linear attack/release gain at the current position.
func (t *tone) envelope() float64 {
	gain := 1.0
	if t.attack > 0 && t.pos < t.attack {
		gain = float64(t.pos) / float64(t.attack)
	}
	if t.release > 0 {
		if left := t.total - t.pos; left < t.release {
			gain = math.Min(gain, float64(left)/float64(t.release))
		}
	}
	return gain
}

// withVolume scales s by a linear gain in (0, 1].
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// notes plays a short melody of sine notes back to back.
func notes(rate beep.SampleRate, d time.Duration, freqs ...float64) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		parts = append(parts, newTone(WaveSine, f, f, d, 5*time.Millisecond, d/2, rate))
	}
	return beep.Seq(parts...)
}

// Effect builds a fresh streamer for the sound at the given sample rate.
// Every effect drains on its own.
func Effect(s object.Sound, rate beep.SampleRate) beep.Streamer {
	switch s {
	case object.SoundPop:
		burst := newTone(WaveNoise, 0, 0, 90*time.Millisecond, time.Millisecond, 70*time.Millisecond, rate)
		thump := newTone(WaveSine, 220, 80, 90*time.Millisecond, time.Millisecond, 60*time.Millisecond, rate)
		return beep.Mix(withVolume(burst, 0.35), withVolume(thump, 0.4))
	case object.SoundShoot:
		return withVolume(newTone(WaveSquare, 900, 1500, 60*time.Millisecond, 2*time.Millisecond, 30*time.Millisecond, rate), 0.2)
	case object.SoundJump:
		return withVolume(newTone(WaveSine, 300, 650, 120*time.Millisecond, 5*time.Millisecond, 60*time.Millisecond, rate), 0.4)
	case object.SoundHit:
		return withVolume(newTone(WaveSaw, 160, 60, 250*time.Millisecond, 2*time.Millisecond, 150*time.Millisecond, rate), 0.35)
	case object.SoundWin:
		return withVolume(notes(rate, 120*time.Millisecond, 523.25, 659.25, 783.99, 1046.5), 0.4)
	case object.SoundLose:
		return withVolume(notes(rate, 180*time.Millisecond, 392, 329.63, 261.63), 0.4)
	default:
		return beep.Silence(0)
	}
}
