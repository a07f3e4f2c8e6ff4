package protocol

import "github.com/google/uuid"

// NewID returns a random identifier for leaderboard rows and sessions.
func NewID() string {
	return uuid.NewString()
}
