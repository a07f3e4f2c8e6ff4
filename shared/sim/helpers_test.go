package sim

import "testing"

// scriptRand replays fixed values; empty scripts return 0.5 and 0.
type scriptRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *scriptRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v % n
}

func line(head Point, n int, gap float64) []Point {
	out := make([]Point, n)
	for i := range out {
		out[i] = Point{X: head.X - gap*float64(i), Y: head.Y}
	}
	return out
}

func testSnake(id string, head Point, size float64) Snake {
	return Snake{
		ID:          id,
		Token:       Token{Mint: id, Symbol: id, Price: 1, PriceAtStart: 1},
		Segments:    line(head, 5, 12),
		Direction:   Right,
		Speed:       2,
		BaseSize:    15,
		CurrentSize: size,
	}
}

func testTokens(n int) []Token {
	out := make([]Token, n)
	for i := range out {
		mint := string(rune('A'+i)) + "mint"
		out[i] = Token{Mint: mint, Symbol: mint[:1], Price: 1 + float64(i), PriceAtStart: 1 + float64(i)}
	}
	return out
}

func mustSelected(t *testing.T, w World) Snake {
	t.Helper()
	s, ok := w.Selected()
	if !ok {
		t.Fatalf("no selected snake")
	}
	return s
}
