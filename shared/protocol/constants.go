package protocol

const (
	// Logical play field, not the window size.
	CanvasW = 900
	CanvasH = 550

	// Client cadences
	FrameRate      = 60
	PriceRefreshMs = 5000

	MaxSnakes        = 10
	LeaderboardLimit = 50

	// Defaults used when a submission leaves them out
	DefaultSnakeCount = 1
	DefaultTopSnake   = "SOL"

	GameVersion = "0.3.0"
)

// SOLMint is the wrapped SOL mint; the native balance is reported under it.
const SOLMint = "So11111111111111111111111111111111111111112"
