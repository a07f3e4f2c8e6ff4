package sim

import "math"

type EventKind uint8

const (
	EatFood EventKind = iota + 1
	EatSnake
)

func (k EventKind) String() string {
	switch k {
	case EatFood:
		return "eat_food"
	case EatSnake:
		return "eat_snake"
	}
	return "unknown"
}

// Event is one consumption found by Detect. It names its target by id so it
// can be applied at most once; Points is filled in when the event is applied.
type Event struct {
	Kind     EventKind
	FoodID   uint64
	VictimID string
	Points   int64
}

// HitRadius is how close food or a head must be to the controlled head.
func HitRadius(cfg Config, s Snake) float64 {
	return math.Max(cfg.MinHitRadius, s.CurrentSize)
}

// Detect lists everything the controlled snake can eat in w. Food comes first,
// then snakes, each in world order. The size advantage is judged against w.
func Detect(cfg Config, w World) []Event {
	me, ok := w.Selected()
	if !ok || len(me.Segments) == 0 {
		return nil
	}
	head := me.Head()
	r := HitRadius(cfg, me)

	var events []Event
	for _, f := range w.Food {
		if distance(head, Point{X: f.X, Y: f.Y}) < r {
			events = append(events, Event{Kind: EatFood, FoodID: f.ID})
		}
	}
	for _, o := range w.Snakes {
		if o.ID == me.ID || len(o.Segments) == 0 {
			continue
		}
		if distance(head, o.Head()) < r && me.CurrentSize > o.CurrentSize*cfg.SizeAdvantage {
			events = append(events, Event{Kind: EatSnake, VictimID: o.ID})
		}
	}
	return events
}

// ApplyEvents applies events in order and returns the new world plus the
// events that actually took effect. Stale events are skipped.
func ApplyEvents(cfg Config, rng Rand, w World, events []Event) (World, []Event) {
	var applied []Event
	for _, ev := range events {
		var pts int64
		var ok bool
		switch ev.Kind {
		case EatFood:
			w, pts, ok = ConsumeFood(cfg, rng, w, ev.FoodID)
		case EatSnake:
			w, pts, ok = ConsumeSnake(cfg, w, ev.VictimID)
		}
		if ok {
			ev.Points = pts
			applied = append(applied, ev)
		}
	}
	return w, applied
}

// ConsumeFood removes food id, spawns one replacement, scores it and grows the
// controlled snake. ok is false if the food or the controlled snake is gone.
func ConsumeFood(cfg Config, rng Rand, w World, id uint64) (World, int64, bool) {
	mi := w.indexOf(w.SelectedID)
	if mi < 0 {
		return w, 0, false
	}
	fi := -1
	for i := range w.Food {
		if w.Food[i].ID == id {
			fi = i
			break
		}
	}
	if fi < 0 {
		return w, 0, false
	}
	pts := int64(w.Food[fi].Value)

	food := make([]Food, 0, len(w.Food))
	food = append(food, w.Food[:fi]...)
	food = append(food, w.Food[fi+1:]...)
	w.Food = food
	var f Food
	w, f = spawnFood(cfg, rng, w)
	w.Food = append(w.Food, f)

	w.Score += pts
	w.Snakes = replaceSnake(w.Snakes, mi, GrowFromFood(cfg, w.Snakes[mi]))
	return w, pts, true
}

// ConsumeSnake removes the victim, scores it and grows the controlled snake.
// The controlled snake itself is never a victim.
func ConsumeSnake(cfg Config, w World, victimID string) (World, int64, bool) {
	if victimID == "" || victimID == w.SelectedID {
		return w, 0, false
	}
	mi := w.indexOf(w.SelectedID)
	vi := w.indexOf(victimID)
	if mi < 0 || vi < 0 {
		return w, 0, false
	}
	victim := w.Snakes[vi]
	pts := int64(math.Floor(victim.CurrentSize * cfg.VictimScorePerSize))
	me := GrowFromSnake(cfg, w.Snakes[mi], victim)

	snakes := make([]Snake, 0, len(w.Snakes)-1)
	for i, s := range w.Snakes {
		switch i {
		case vi:
			continue
		case mi:
			snakes = append(snakes, me)
		default:
			snakes = append(snakes, s)
		}
	}
	w.Snakes = snakes
	w.Score += pts
	return w, pts, true
}

func replaceSnake(snakes []Snake, i int, s Snake) []Snake {
	out := append([]Snake(nil), snakes...)
	out[i] = s
	return out
}
