package sim

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	minVisualSize = 16
	maxVisualSize = 32
	visualFactor  = 0.8
)

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApplyPriceUpdate re-derives the snake's size from a price change in percent.
// Growth from eating is kept; segment count is unchanged.
func ApplyPriceUpdate(cfg Config, s Snake, pct float64) Snake {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return s
	}
	s.Token.PriceChange = pct
	s.CurrentSize = clamp(s.BaseSize+cfg.PriceEffect*pct+s.BonusSize, cfg.MinSize, cfg.MaxSize)
	return s
}

func GrowFromFood(cfg Config, s Snake) Snake {
	return grow(cfg, s, cfg.FoodTailSegments, cfg.FoodBonus)
}

// GrowFromSnake grows the eater by up to VictimTailSegments segments and half
// the victim's size.
func GrowFromSnake(cfg Config, s, victim Snake) Snake {
	n := min(cfg.VictimTailSegments, len(victim.Segments))
	return grow(cfg, s, n, math.Floor(victim.CurrentSize/2))
}

func grow(cfg Config, s Snake, tail int, bonus float64) Snake {
	if tail > 0 && len(s.Segments) > 0 {
		segs := make([]Point, len(s.Segments), len(s.Segments)+tail)
		copy(segs, s.Segments)
		last := segs[len(segs)-1]
		for i := 0; i < tail; i++ {
			segs = append(segs, last)
		}
		s.Segments = segs
	}
	if bonus > 0 {
		s.BonusSize += bonus
		s.CurrentSize += bonus
	}
	s.CurrentSize = clamp(s.CurrentSize, cfg.MinSize, cfg.MaxSize)
	return s
}

// PriceChange is the percent move from start to now. ok is false when now is not
// a usable price. A missing start price is treated as now, giving 0%.
func PriceChange(start, now float64) (pct float64, ok bool) {
	if !validPrice(now) {
		return 0, false
	}
	if !validPrice(start) {
		return 0, true
	}
	return (now - start) / start * 100, true
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

// VisualScale maps a logical size to the on-screen body radius.
func VisualScale(size float64) float64 {
	return clamp(size*visualFactor, minVisualSize, maxVisualSize)
}
