package sim

// Steer occasionally turns an autonomous snake. With probability TurnChance it
// picks uniformly among the three directions that are not a reversal, which
// includes carrying straight on.
func Steer(cfg Config, rng Rand, s Snake) Snake {
	if rng.Float64() >= cfg.TurnChance {
		return s
	}
	var choices [3]Direction
	n := 0
	for _, d := range Directions {
		if d != s.Direction.Opposite() {
			choices[n] = d
			n++
		}
	}
	s.Direction = choices[rng.Intn(n)]
	return s
}

// ChangeDirection applies a requested heading. An exact reversal is refused
// and s is returned unchanged with ok=false.
func ChangeDirection(s Snake, d Direction) (Snake, bool) {
	if d == s.Direction.Opposite() {
		return s, false
	}
	s.Direction = d
	return s, true
}
