package sim

// Config is the tuning shared by every snake in one world. Build it once with
// DefaultConfig (or by hand in tests) and treat it as read-only afterwards.
type Config struct {
	Palette []string // snake colors, assigned by creation index

	BaseSize float64
	MinSize  float64
	MaxSize  float64

	BaseSpeed       float64 // px per tick at BaseSize
	SegmentGap      float64 // follow distance as a fraction of size
	InitialSegments int
	SpawnMargin     float64
	MaxSnakes       int

	TurnChance  float64 // per tick, autonomous snakes only
	PriceEffect float64 // size units per 1% price change

	FoodCount  int
	FoodValue  int
	FoodMargin float64

	FoodBonus          float64 // permanent growth per food
	FoodTailSegments   int
	VictimTailSegments int     // upper bound, also limited by the victim's length
	MinHitRadius       float64 // px
	SizeAdvantage      float64 // eater must exceed victim size by this factor
	VictimScorePerSize float64
}

func DefaultPalette() []string {
	return []string{
		"#FF6B6B", // red
		"#4ECDC4", // teal
		"#45B7D1", // blue
		"#96CEB4", // green
		"#FFEAA7", // yellow
		"#DDA0DD", // plum
		"#98D8C8", // mint
		"#F7DC6F", // gold
		"#BB8FCE", // purple
		"#85C1E9", // light blue
	}
}

func DefaultConfig() Config {
	return Config{
		Palette: DefaultPalette(),

		BaseSize: 15,
		MinSize:  8,
		MaxSize:  40,

		BaseSpeed:       2,
		SegmentGap:      0.8,
		InitialSegments: 5,
		SpawnMargin:     50,
		MaxSnakes:       10,

		TurnChance:  0.02,
		PriceEffect: 0.3,

		FoodCount:  20,
		FoodValue:  10,
		FoodMargin: 20,

		FoodBonus:          3,
		FoodTailSegments:   2,
		VictimTailSegments: 5,
		MinHitRadius:       25,
		SizeAdvantage:      1.1,
		VictimScorePerSize: 10,
	}
}

// Color returns the palette entry for the snake created at index.
func (c Config) Color(index int) string {
	if len(c.Palette) == 0 {
		return "#FFFFFF"
	}
	if index < 0 {
		index = -index
	}
	return c.Palette[index%len(c.Palette)]
}
