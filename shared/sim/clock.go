package sim

// Tick advances every snake one step: autonomous snakes may turn, then all
// snakes move. Food, score and selection carry over. A stopped world is
// returned as is.
func Tick(cfg Config, rng Rand, w World) World {
	if !w.Running {
		return w
	}
	snakes := make([]Snake, len(w.Snakes))
	for i, s := range w.Snakes {
		if s.ID != w.SelectedID {
			s = Steer(cfg, rng, s)
		}
		snakes[i] = Move(cfg, s, w.Width, w.Height)
	}
	w.Snakes = snakes
	return w
}
