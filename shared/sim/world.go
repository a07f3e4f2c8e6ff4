package sim

import "math"

// NewWorld builds the starting world: one snake per token (duplicates by mint
// dropped, at most MaxSnakes), a full food population, the first snake
// selected and the clock running. No tokens or unusable bounds give an idle
// world with nothing in it.
func NewWorld(cfg Config, rng Rand, tokens []Token, width, height float64) World {
	w := World{Width: math.Max(width, 0), Height: math.Max(height, 0)}
	if len(tokens) == 0 || width <= 0 || height <= 0 {
		return w
	}

	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if cfg.MaxSnakes > 0 && len(w.Snakes) >= cfg.MaxSnakes {
			break
		}
		if tok.Mint == "" || seen[tok.Mint] {
			continue
		}
		seen[tok.Mint] = true
		if !validPrice(tok.PriceAtStart) {
			tok.PriceAtStart = tok.Price
		}
		idx := len(w.Snakes)
		w.Snakes = append(w.Snakes, NewSnake(cfg, rng, tok, width, height, idx, idx == 0))
	}
	if len(w.Snakes) == 0 {
		return World{Width: w.Width, Height: w.Height}
	}
	w.SelectedID = w.Snakes[0].ID

	for i := 0; i < cfg.FoodCount; i++ {
		var f Food
		w, f = spawnFood(cfg, rng, w)
		w.Food = append(w.Food, f)
	}
	w.Running = true
	return w
}

// spawnFood draws one food item inside the food margin and assigns it the next id.
func spawnFood(cfg Config, rng Rand, w World) (World, Food) {
	w.nextFoodID++
	f := Food{
		ID:    w.nextFoodID,
		X:     spawnAxis(rng, w.Width, cfg.FoodMargin),
		Y:     spawnAxis(rng, w.Height, cfg.FoodMargin),
		Value: cfg.FoodValue,
	}
	return w, f
}

// SteerSelected applies a heading request to the controlled snake.
func SteerSelected(w World, d Direction) (World, bool) {
	i := w.indexOf(w.SelectedID)
	if i < 0 {
		return w, false
	}
	s, ok := ChangeDirection(w.Snakes[i], d)
	if !ok {
		return w, false
	}
	w.Snakes = replaceSnake(w.Snakes, i, s)
	return w, true
}

// Select hands control to the snake with id. IsPlayer follows the selection.
func Select(w World, id string) (World, bool) {
	if w.indexOf(id) < 0 {
		return w, false
	}
	snakes := make([]Snake, len(w.Snakes))
	for i, s := range w.Snakes {
		s.IsPlayer = s.ID == id
		snakes[i] = s
	}
	w.Snakes = snakes
	w.SelectedID = id
	return w, true
}

// UpdatePrices feeds fresh prices (by mint) into the growth model and reports
// how many snakes changed. Snakes without a usable price keep their size.
func UpdatePrices(cfg Config, w World, prices map[string]float64) (World, int) {
	if len(prices) == 0 || len(w.Snakes) == 0 {
		return w, 0
	}
	snakes := make([]Snake, len(w.Snakes))
	n := 0
	for i, s := range w.Snakes {
		if p, ok := prices[s.ID]; ok {
			if pct, ok := PriceChange(s.Token.PriceAtStart, p); ok {
				if !validPrice(s.Token.PriceAtStart) {
					s.Token.PriceAtStart = p
				}
				s.Token.Price = p
				s = ApplyPriceUpdate(cfg, s, pct)
				n++
			}
		}
		snakes[i] = s
	}
	w.Snakes = snakes
	return w, n
}

func Stop(w World) World {
	w.Running = false
	return w
}

// Start resumes a stopped world. An empty world stays idle.
func Start(w World) World {
	w.Running = len(w.Snakes) > 0
	return w
}

// Biggest returns the snake with the largest current size, first wins on ties.
func Biggest(w World) (Snake, bool) {
	if len(w.Snakes) == 0 {
		return Snake{}, false
	}
	best := w.Snakes[0]
	for _, s := range w.Snakes[1:] {
		if s.CurrentSize > best.CurrentSize {
			best = s
		}
	}
	return best, true
}
