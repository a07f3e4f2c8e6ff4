package sim

import "math"

// EffectiveSpeed scales the base speed by how far the snake has grown or shrunk.
func EffectiveSpeed(s Snake) float64 {
	if s.BaseSize <= 0 {
		return s.Speed
	}
	return s.Speed * s.CurrentSize / s.BaseSize
}

// Move advances s by one tick. The head steps along its direction and wraps at
// the bounds; every following segment is pulled toward its leader until it is
// no further than CurrentSize*SegmentGap away. Body segments are not wrapped.
func Move(cfg Config, s Snake, width, height float64) Snake {
	if len(s.Segments) == 0 {
		return s
	}
	speed := EffectiveSpeed(s)
	dx, dy := s.Direction.Vector()

	out := make([]Point, len(s.Segments))
	head := s.Segments[0]
	out[0] = wrap(Point{X: head.X + dx*speed, Y: head.Y + dy*speed}, width, height)

	target := s.CurrentSize * cfg.SegmentGap
	for i := 1; i < len(s.Segments); i++ {
		out[i] = follow(out[i-1], s.Segments[i], target)
	}
	s.Segments = out
	return s
}

func wrap(p Point, width, height float64) Point {
	if p.X < 0 {
		p.X = width
	} else if p.X > width {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = height
	} else if p.Y > height {
		p.Y = 0
	}
	return p
}

// follow moves p toward lead by exactly the distance beyond target.
func follow(lead, p Point, target float64) Point {
	dx := lead.X - p.X
	dy := lead.Y - p.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 || dist <= target {
		return p
	}
	excess := dist - target
	return Point{
		X: p.X + dx/dist*excess,
		Y: p.Y + dy/dist*excess,
	}
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
