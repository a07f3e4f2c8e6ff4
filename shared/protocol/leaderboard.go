package protocol

import "time"

type LeaderboardEntry struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	WalletShort   string    `json:"wallet_short"`
	Player        string    `json:"player,omitempty"` // account name when submitted with a login
	Score         int64     `json:"score"`
	SnakeCount    int       `json:"snake_count"`
	TopSnake      string    `json:"top_snake"`
	CreatedAt     time.Time `json:"created_at"`
}

type Leaderboard struct {
	Items       []LeaderboardEntry `json:"items"`
	GeneratedAt int64              `json:"generated_at"` // Unix ms
	Error       string             `json:"error,omitempty"`
}

// Empty request. Client sends this over /ws to fetch the board.
type GetLeaderboard struct{}

type ScoreSubmission struct {
	WalletAddress string `json:"wallet_address"`
	Score         int64  `json:"score"`
	SnakeCount    int    `json:"snake_count"`
	TopSnake      string `json:"top_snake"`
}

type SubmitResult struct {
	Entry LeaderboardEntry `json:"entry"`
}
