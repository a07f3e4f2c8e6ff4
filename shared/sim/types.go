package sim

import "strings"

type Point struct {
	X, Y float64
}

type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

var Directions = [4]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return "UNKNOWN"
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Vector is the unit step for d in screen coordinates (y grows downward).
func (d Direction) Vector() (dx, dy float64) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return Up, true
	case "DOWN":
		return Down, true
	case "LEFT":
		return Left, true
	case "RIGHT":
		return Right, true
	}
	return Up, false
}

// Token is the priced holding a snake stands for.
type Token struct {
	Mint         string
	Symbol       string
	Name         string
	Balance      float64
	Price        float64
	PriceAtStart float64
	PriceChange  float64 // percent since the game started
}

type Snake struct {
	ID          string
	Token       Token
	Segments    []Point // head first
	Direction   Direction
	Speed       float64
	BaseSize    float64
	CurrentSize float64
	BonusSize   float64 // permanent growth from eating, never decreases
	Color       string
	IsPlayer    bool
}

func (s Snake) Head() Point {
	if len(s.Segments) == 0 {
		return Point{}
	}
	return s.Segments[0]
}

func (s Snake) clone() Snake {
	s.Segments = append([]Point(nil), s.Segments...)
	return s
}

type Food struct {
	ID    uint64
	X, Y  float64
	Value int
}

// World is one generation of game state. Functions in this package never
// mutate a World's slices in place; they return a new World instead.
type World struct {
	Snakes     []Snake // creation order
	Food       []Food
	Width      float64
	Height     float64
	Running    bool
	SelectedID string // "" only when there are no snakes
	Score      int64

	nextFoodID uint64
}

// Clone deep-copies w so the copy can be read while w moves on.
func (w World) Clone() World {
	out := w
	out.Snakes = make([]Snake, len(w.Snakes))
	for i, s := range w.Snakes {
		out.Snakes[i] = s.clone()
	}
	out.Food = append([]Food(nil), w.Food...)
	return out
}

func (w World) indexOf(id string) int {
	for i := range w.Snakes {
		if w.Snakes[i].ID == id {
			return i
		}
	}
	return -1
}

// Snake looks up a live snake by id.
func (w World) Snake(id string) (Snake, bool) {
	if i := w.indexOf(id); i >= 0 {
		return w.Snakes[i], true
	}
	return Snake{}, false
}

// Selected returns the controlled snake.
func (w World) Selected() (Snake, bool) {
	if w.SelectedID == "" {
		return Snake{}, false
	}
	return w.Snake(w.SelectedID)
}
