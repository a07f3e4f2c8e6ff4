package sim

// NewSnake builds a snake for tok at a random spot inside the spawn margin,
// heading in a random direction with its body trailing behind the head.
// index is the creation index and picks the color.
func NewSnake(cfg Config, rng Rand, tok Token, width, height float64, index int, controlled bool) Snake {
	head := Point{
		X: spawnAxis(rng, width, cfg.SpawnMargin),
		Y: spawnAxis(rng, height, cfg.SpawnMargin),
	}
	dir := Directions[rng.Intn(len(Directions))]
	dx, dy := dir.Vector()

	n := cfg.InitialSegments
	if n < 1 {
		n = 1
	}
	gap := cfg.BaseSize * cfg.SegmentGap
	segs := make([]Point, n)
	for i := range segs {
		segs[i] = Point{
			X: head.X - dx*gap*float64(i),
			Y: head.Y - dy*gap*float64(i),
		}
	}

	return Snake{
		ID:          tok.Mint,
		Token:       tok,
		Segments:    segs,
		Direction:   dir,
		Speed:       cfg.BaseSpeed,
		BaseSize:    cfg.BaseSize,
		CurrentSize: clamp(cfg.BaseSize, cfg.MinSize, cfg.MaxSize),
		Color:       cfg.Color(index),
		IsPlayer:    controlled,
	}
}

// spawnAxis picks a coordinate in [margin, extent-margin]. Bounds too small for
// the margin collapse to the center.
func spawnAxis(rng Rand, extent, margin float64) float64 {
	span := extent - 2*margin
	if span <= 0 {
		return extent / 2
	}
	return margin + rng.Float64()*span
}
