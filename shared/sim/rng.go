package sim

import (
	"math/rand"
	"time"
)

// Rand is the randomness a world needs. *math/rand.Rand satisfies it.
// Implementations need not be safe for concurrent use; Session serializes access.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// NewTimeRand seeds from the wall clock, for real games.
func NewTimeRand() Rand {
	return NewRand(time.Now().UnixNano())
}
