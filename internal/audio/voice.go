package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/san-kum/orbitarena/internal/physics"
)

const SampleRate = beep.SampleRate(44100)

type Wave int

const (
	WaveSine Wave = iota
	WaveSaw
	WaveNoise
)

const (
	boundaryDuration = 120 * time.Millisecond
	boundaryAttack   = 2 * time.Millisecond
	boundaryRelease  = 100 * time.Millisecond

	approachDuration = 150 * time.Millisecond
	approachAttack   = 20 * time.Millisecond
	approachRelease  = 80 * time.Millisecond
	approachBaseFreq = 220.0
	approachSpan     = 660.0

	deflectionDuration = 60 * time.Millisecond
	deflectionAttack   = 1 * time.Millisecond
	deflectionRelease  = 40 * time.Millisecond
	deflectionFreq     = 90.0
	deflectionGain     = 0.3
)

type oscillator struct {
	freq     float64
	phase    float64
	position int
	total    int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

func NewOscillator(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:  freq,
		total: rate.N(d),
		wave:  wave,
		rate:  rate,
		rng:   rand.New(rand.NewSource(int64(freq*1000) + int64(wave))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.position >= o.total {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to the wrapped streamer.
type envelope struct {
	s        beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		s:       s,
		attack:  rate.N(attack),
		release: rate.N(release),
		total:   rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	releaseStart := e.total - e.release
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.release > 0 && e.position >= releaseStart {
			vol = math.Min(vol, float64(e.total-e.position)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

func withGain(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// ApproachFrequency maps closeness in [0,1] to a tone pitch in Hz.
func ApproachFrequency(closeness float64) float64 {
	return approachBaseFreq + approachSpan*math.Max(0, math.Min(1, closeness))
}

// Voice builds the sound for one event. It returns nil for events that
// should stay silent.
func Voice(ev physics.Event, rate beep.SampleRate) beep.Streamer {
	switch ev.Kind {
	case physics.EventBoundary:
		if ev.Strength <= 0 {
			return nil
		}
		noise := NewOscillator(0, boundaryDuration, WaveNoise, rate)
		shaped := NewEnvelope(noise, boundaryDuration, boundaryAttack, boundaryRelease, rate)
		return withGain(shaped, math.Min(1, ev.Strength))

	case physics.EventCloseApproach:
		if ev.Strength <= 0 {
			return nil
		}
		tone := NewOscillator(ApproachFrequency(ev.Strength), approachDuration, WaveSine, rate)
		shaped := NewEnvelope(tone, approachDuration, approachAttack, approachRelease, rate)
		return withGain(shaped, 0.15+0.25*math.Min(1, ev.Strength))

	case physics.EventDeflection:
		blip := NewOscillator(deflectionFreq, deflectionDuration, WaveSaw, rate)
		shaped := NewEnvelope(blip, deflectionDuration, deflectionAttack, deflectionRelease, rate)
		return withGain(shaped, deflectionGain)
	}
	return nil
}
