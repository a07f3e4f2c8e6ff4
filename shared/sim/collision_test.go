package sim

import "testing"

func scenarioWorld() World {
	me := testSnake("me", Point{X: 300, Y: 300}, 40)
	me.IsPlayer = true
	victim := testSnake("victim", Point{X: 300, Y: 300}, 30)
	far := testSnake("far", Point{X: 800, Y: 500}, 10)
	return World{
		Snakes:     []Snake{me, victim, far},
		Food:       []Food{{ID: 1, X: 20, Y: 20, Value: 10}},
		Width:      900,
		Height:     550,
		Running:    true,
		SelectedID: "me",
		nextFoodID: 1,
	}
}

func TestEatSnakeScenario(t *testing.T) {
	cfg := DefaultConfig()
	w := scenarioWorld()
	events := Detect(cfg, w)
	if len(events) != 1 || events[0].Kind != EatSnake || events[0].VictimID != "victim" {
		t.Fatalf("events=%+v", events)
	}

	next, applied := ApplyEvents(cfg, NewRand(1), w, events)
	if len(next.Snakes) != 2 {
		t.Fatalf("snakes=%d want 2", len(next.Snakes))
	}
	if next.Score != 300 || applied[0].Points != 300 {
		t.Fatalf("score=%d points=%d want 300", next.Score, applied[0].Points)
	}
	me := mustSelected(t, next)
	if me.BonusSize != 15 {
		t.Fatalf("bonus=%v want 15", me.BonusSize)
	}
	if me.CurrentSize != 40 {
		t.Fatalf("size=%v want clamped 40", me.CurrentSize)
	}
	if len(w.Snakes) != 3 {
		t.Fatalf("input world mutated")
	}
}

func TestSizeAdvantageRequired(t *testing.T) {
	cfg := DefaultConfig()
	w := scenarioWorld()
	w.Snakes[0].CurrentSize = 33 // not strictly above 30*1.1
	if events := Detect(cfg, w); len(events) != 0 {
		t.Fatalf("events=%+v", events)
	}
}

func TestHitRadiusFloor(t *testing.T) {
	cfg := DefaultConfig()
	w := scenarioWorld()
	w.Snakes[0].CurrentSize = 20
	w.Snakes[1].CurrentSize = 10
	w.Snakes[1].Segments = line(Point{X: 324, Y: 300}, 3, 12)
	if len(Detect(cfg, w)) != 1 {
		t.Fatalf("victim 24px away not detected")
	}
	w.Snakes[1].Segments = line(Point{X: 326, Y: 300}, 3, 12)
	if len(Detect(cfg, w)) != 0 {
		t.Fatalf("victim 26px away detected with radius 25")
	}
	if r := HitRadius(cfg, Snake{CurrentSize: 38}); r != 38 {
		t.Fatalf("radius=%v want 38", r)
	}
}

func TestEatFoodKeepsPopulation(t *testing.T) {
	cfg := DefaultConfig()
	w := scenarioWorld()
	w.Snakes = w.Snakes[:1]
	w.Food = append(w.Food, Food{ID: 2, X: 305, Y: 300, Value: 10})
	w.nextFoodID = 2

	events := Detect(cfg, w)
	if len(events) != 1 || events[0].Kind != EatFood || events[0].FoodID != 2 {
		t.Fatalf("events=%+v", events)
	}
	next, _ := ApplyEvents(cfg, NewRand(1), w, events)
	if len(next.Food) != 2 {
		t.Fatalf("food=%d want 2", len(next.Food))
	}
	for _, f := range next.Food {
		if f.ID == 2 {
			t.Fatalf("eaten food still present")
		}
	}
	if next.Score != 10 {
		t.Fatalf("score=%d", next.Score)
	}
	me := mustSelected(t, next)
	if len(me.Segments) != 7 || me.BonusSize != 3 {
		t.Fatalf("segments=%d bonus=%v", len(me.Segments), me.BonusSize)
	}
}

func TestStaleEventsAreNoops(t *testing.T) {
	cfg := DefaultConfig()
	w := scenarioWorld()
	w.Food = append(w.Food, Food{ID: 2, X: 300, Y: 310, Value: 10})
	w.nextFoodID = 2
	events := Detect(cfg, w)
	if len(events) != 2 {
		t.Fatalf("events=%+v", events)
	}
	doubled := append(append([]Event(nil), events...), events...)
	next, applied := ApplyEvents(cfg, NewRand(1), w, doubled)
	if len(applied) != 2 {
		t.Fatalf("applied=%d want 2", len(applied))
	}
	if next.Score != 310 {
		t.Fatalf("score=%d want 310", next.Score)
	}
	if len(next.Food) != 2 || len(next.Snakes) != 2 {
		t.Fatalf("food=%d snakes=%d", len(next.Food), len(next.Snakes))
	}
}

func TestControlledSnakeCannotBeEaten(t *testing.T) {
	cfg := DefaultConfig()
	w := scenarioWorld()
	if _, _, ok := ConsumeSnake(cfg, w, "me"); ok {
		t.Fatalf("controlled snake consumed")
	}
	// a bigger autonomous snake on top of the controlled one does nothing
	w.Snakes[1].CurrentSize = 40
	w.Snakes[0].CurrentSize = 10
	if events := Detect(cfg, w); len(events) != 0 {
		t.Fatalf("events=%+v", events)
	}
}

func TestDetectWithoutSelection(t *testing.T) {
	if events := Detect(DefaultConfig(), World{}); events != nil {
		t.Fatalf("events=%+v", events)
	}
}
