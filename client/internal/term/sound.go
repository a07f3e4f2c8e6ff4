package term

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

const sampleRate = beep.SampleRate(44100)

// Sounder plays feedback for consumption events.
type Sounder interface {
	Eat(kind sim.EventKind)
	Close()
}

type silent struct{}

func (silent) Eat(sim.EventKind) {}
func (silent) Close()            {}

// Silent is a Sounder that does nothing, for tests and muted play.
func Silent() Sounder { return silent{} }

// Beeper plays a short sine tone per event: a high blip for food, a low
// thump for a swallowed snake.
type Beeper struct {
	mu     sync.Mutex
	closed bool
}

func NewBeeper() (*Beeper, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Beeper{}, nil
}

func (b *Beeper) Eat(kind sim.EventKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	freq, d := 880.0, 50*time.Millisecond
	if kind == sim.EatSnake {
		freq, d = 220, 180*time.Millisecond
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

func (b *Beeper) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	speaker.Close()
}
