package game

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

const maxParticles = 256

// Particle is one spark of an eat burst. Life runs from 1 down to 0.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64
	Decay  float64 // life lost per tick
	Size   float64
	Color  color.NRGBA
}

// Particles is a fixed-capacity pool of sparks, updated once per tick.
type Particles struct {
	list []Particle
	rng  *rand.Rand
}

func newParticles(seed int64) *Particles {
	return &Particles{list: make([]Particle, 0, maxParticles), rng: rand.New(rand.NewSource(seed))}
}

// Burst throws n sparks outward from (x, y) in field coordinates.
func (p *Particles) Burst(x, y float64, n int, speed float64, col color.NRGBA) {
	for i := 0; i < n && len(p.list) < maxParticles; i++ {
		a := p.rng.Float64() * 2 * math.Pi
		v := speed * (0.4 + 0.6*p.rng.Float64())
		p.list = append(p.list, Particle{
			X: x, Y: y,
			VX: math.Cos(a) * v, VY: math.Sin(a) * v,
			Life:  1,
			Decay: 0.03 + 0.03*p.rng.Float64(),
			Size:  2 + 3*p.rng.Float64(),
			Color: col,
		})
	}
}

// ForEvent bursts at the controlled head for a consumption event.
func (p *Particles) ForEvent(e sim.Event, head sim.Point) {
	switch e.Kind {
	case sim.EatFood:
		p.Burst(head.X, head.Y, 12, 2.5, colFood)
	case sim.EatSnake:
		p.Burst(head.X, head.Y, 40, 4, colGold)
	}
}

// Update moves and ages every spark, dropping the dead ones in place.
func (p *Particles) Update() {
	live := p.list[:0]
	for _, s := range p.list {
		s.X += s.VX
		s.Y += s.VY
		s.VX *= 0.92
		s.VY *= 0.92
		s.Life -= s.Decay
		if s.Life > 0 {
			live = append(live, s)
		}
	}
	p.list = live
}

func (p *Particles) Len() int { return len(p.list) }

func (p *Particles) Clear() { p.list = p.list[:0] }

// Draw renders the sparks with alpha fading by life; oy offsets the field.
func (p *Particles) Draw(dst *ebiten.Image, oy float32) {
	for _, s := range p.list {
		c := s.Color
		c.A = uint8(float64(c.A) * s.Life)
		sz := float32(s.Size * (0.5 + 0.5*s.Life))
		vector.DrawFilledRect(dst, float32(s.X)-sz/2, oy+float32(s.Y)-sz/2, sz, sz, c, false)
	}
}
