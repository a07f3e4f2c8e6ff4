package term

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/play"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

func simScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func rowText(s tcell.Screen, y, n int) string {
	out := make([]rune, 0, n)
	for x := 0; x < n; x++ {
		out = append(out, runeAt(s, x, y))
	}
	return string(out)
}

func TestDrawWorldPlacesEntities(t *testing.T) {
	scr := simScreen(t, 90, 57)
	w := sim.World{
		Width: 900, Height: 550, Running: true, Score: 42, SelectedID: "me",
		Snakes: []sim.Snake{
			{ID: "me", Token: sim.Token{Symbol: "SOL"}, Color: "#FF6B6B", CurrentSize: 15,
				Segments: []sim.Point{{X: 455, Y: 275}, {X: 405, Y: 275}}},
			{ID: "other", Token: sim.Token{Symbol: "BONK"}, Color: "#4ECDC4", CurrentSize: 15,
				Segments: []sim.Point{{X: 105, Y: 55}}},
		},
		Food: []sim.Food{{ID: 1, X: 805, Y: 505, Value: 10}},
	}
	DrawWorld(scr, w, 90, 57, "")

	// 10px per column, 10px per row below the HUD line
	if r := runeAt(scr, 45, 1+27); r != '@' {
		t.Fatalf("selected head = %q", r)
	}
	if r := runeAt(scr, 40, 1+27); r != 'o' {
		t.Fatalf("body = %q", r)
	}
	if r := runeAt(scr, 10, 1+5); r != 'O' {
		t.Fatalf("other head = %q", r)
	}
	if r := runeAt(scr, 80, 1+50); r != '*' {
		t.Fatalf("food = %q", r)
	}
	if got := rowText(scr, 0, 9); got != "SCORE: 42" {
		t.Fatalf("hud = %q", got)
	}
}

func TestDrawWorldClampsEdges(t *testing.T) {
	scr := simScreen(t, 20, 12)
	w := sim.World{
		Width: 900, Height: 550, SelectedID: "me",
		Snakes: []sim.Snake{{ID: "me", Segments: []sim.Point{{X: 900, Y: 550}}}},
	}
	DrawWorld(scr, w, 20, 12, "STALE")
	if r := runeAt(scr, 19, 10); r != '@' {
		t.Fatalf("edge head = %q", r)
	}
	if got := rowText(scr, 0, 20)[14:19]; got != "STALE" {
		t.Fatalf("status = %q", got)
	}
}

func TestDrawWorldIdle(t *testing.T) {
	scr := simScreen(t, 20, 12)
	DrawWorld(scr, sim.World{}, 20, 12, "")
	if r := runeAt(scr, 0, 0); r != ' ' {
		t.Fatalf("idle world drew %q", r)
	}
}

func newView(t *testing.T) *View {
	t.Helper()
	tokens := []sim.Token{
		{Mint: "a", Symbol: "AAA", Price: 1, PriceAtStart: 1},
		{Mint: "b", Symbol: "BBB", Price: 1, PriceAtStart: 1},
	}
	m := play.NewMatch(sim.DefaultConfig(), sim.NewRand(9), tokens, "", nil, 0)
	t.Cleanup(m.Stop)
	return &View{Screen: simScreen(t, 90, 30), Match: m, Sound: Silent()}
}

func TestHandleKey(t *testing.T) {
	v := newView(t)
	s := v.Match.Session()

	sel, _ := s.Snapshot().Selected()
	turn := sim.Left
	if sel.Direction == sim.Left || sel.Direction == sim.Right {
		turn = sim.Up
	}
	key := map[sim.Direction]tcell.Key{sim.Left: tcell.KeyLeft, sim.Up: tcell.KeyUp}[turn]
	if v.HandleKey(tcell.NewEventKey(key, 0, tcell.ModNone)) {
		t.Fatal("arrow key quit")
	}
	if sel, _ = s.Snapshot().Selected(); sel.Direction != turn {
		t.Fatalf("direction = %v, want %v", sel.Direction, turn)
	}

	before := s.Snapshot().SelectedID
	v.HandleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if s.Snapshot().SelectedID == before {
		t.Fatal("tab did not switch snakes")
	}

	v.HandleKey(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone))
	if !v.showSnakes {
		t.Fatal("t did not open the snake list")
	}
	if !v.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatal("q did not quit")
	}
	if !v.HandleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("esc did not quit")
	}
}

func TestBoardToggle(t *testing.T) {
	v := newView(t)
	v.Board = func(ctx context.Context) (protocol.Leaderboard, error) {
		return protocol.Leaderboard{
			Items:       []protocol.LeaderboardEntry{{WalletShort: "AbCd...WxYz", Score: 420, TopSnake: "BONK"}},
			GeneratedAt: 1,
		}, nil
	}
	v.results = make(chan func(), 1)
	v.toggleBoard()
	select {
	case apply := <-v.results:
		apply()
	case <-time.After(2 * time.Second):
		t.Fatal("board never arrived")
	}
	if v.board == nil || len(v.board.Items) != 1 {
		t.Fatalf("board = %+v", v.board)
	}
	v.Draw()
	if got := rowText(v.Screen, 2, 20)[2:20]; got != "GLOBAL LEADERBOARD" {
		t.Fatalf("board title = %q", got)
	}
	v.toggleBoard()
	if v.board != nil {
		t.Fatal("second toggle should close the board")
	}
}

func TestRunQuits(t *testing.T) {
	v := newView(t)
	scr := v.Screen.(tcell.SimulationScreen)
	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background()) }()

	scr.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on q")
	}
}
