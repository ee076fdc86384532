package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/tomz197/balloonpop/internal/object"
)

// drain streams s to the end, failing if it runs longer than max.
func drain(t *testing.T, s beep.Streamer, max time.Duration) (total, loud int) {
	t.Helper()
	buf := make([][2]float64, 512)
	limit := sampleRate.N(max)
	for total <= limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			for ch := 0; ch < 2; ch++ {
				v := buf[i][ch]
				if v < -1 || v > 1 {
					t.Fatalf("sample %d out of range: %f", total+i, v)
				}
				if v > 0.01 || v < -0.01 {
					loud++
				}
			}
		}
		total += n
		if !ok {
			return total, loud
		}
	}
	t.Fatalf("stream did not drain within %v", max)
	return
}

func TestEffectsStayInRangeAndDrain(t *testing.T) {
	sounds := []struct {
		name  string
		sound object.Sound
	}{
		{"pop", object.SoundPop},
		{"shoot", object.SoundShoot},
		{"jump", object.SoundJump},
		{"hit", object.SoundHit},
		{"win", object.SoundWin},
		{"lose", object.SoundLose},
	}
	for _, tt := range sounds {
		t.Run(tt.name, func(t *testing.T) {
			total, loud := drain(t, Effect(tt.sound, sampleRate), 2*time.Second)
			if total == 0 || loud == 0 {
				t.Fatalf("effect is silent: %d samples, %d audible", total, loud)
			}
		})
	}
}

func TestToneDuration(t *testing.T) {
	tn := newTone(WaveSquare, 440, 440, 10*time.Millisecond, 0, 0, sampleRate)
	total, _ := drain(t, tn, time.Second)
	if want := sampleRate.N(10 * time.Millisecond); total != want {
		t.Fatalf("tone streamed %d samples, want %d", total, want)
	}
}

func TestToneEnvelopeStartsSilent(t *testing.T) {
	tn := newTone(WaveSquare, 440, 440, 50*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, sampleRate)
	buf := make([][2]float64, 1)
	tn.Stream(buf)
	if buf[0][0] != 0 {
		t.Fatalf("first sample = %f, want 0 at the start of the attack", buf[0][0])
	}
}

func TestPlayerWithoutInitIsSilent(t *testing.T) {
	p := NewPlayer()
	p.Play(object.SoundPop)
	p.Close()
}
