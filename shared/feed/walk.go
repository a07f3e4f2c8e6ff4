package feed

import (
	"context"
	"math"
	"sync"

	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

// Walk is an offline PriceSource: every call moves each known price by a
// random step of up to Step percent. Unknown mints start at 1.
type Walk struct {
	Step float64

	mu     sync.Mutex
	rng    sim.Rand
	prices map[string]float64
}

func NewWalk(rng sim.Rand, step float64, start map[string]float64) *Walk {
	p := make(map[string]float64, len(start))
	for k, v := range start {
		p[k] = v
	}
	return &Walk{Step: step, rng: rng, prices: p}
}

func (w *Walk) Prices(ctx context.Context, mints []string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]float64, len(mints))
	for _, m := range mints {
		p, ok := w.prices[m]
		if !ok {
			p = 1
		}
		p *= 1 + (w.rng.Float64()*2-1)*w.Step/100
		p = math.Max(p, 1e-9)
		w.prices[m] = p
		out[m] = p
	}
	return out, nil
}
