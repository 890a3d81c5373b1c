package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/san-kum/orbitarena/internal/physics"
)

// MaxVoices caps how many event sounds overlap; extra events are dropped.
const MaxVoices = 12

// Player mixes event voices into the system speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	slog.Debug("audio started", "rate", int(SampleRate))
	return nil
}

func (p *Player) SetMuted(m bool) {
	p.mu.Lock()
	p.muted = m
	p.mu.Unlock()
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Play queues one voice per event. Events are value copies so the caller
// may keep ticking the simulation.
func (p *Player) Play(events []physics.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted || len(events) == 0 {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	for _, ev := range events {
		if p.mixer.Len() >= MaxVoices {
			return
		}
		if v := Voice(ev, SampleRate); v != nil {
			p.mixer.Add(v)
		}
	}
}

func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
