package game

import (
	"image/color"
	"strconv"
	"strings"
)

var (
	colBlack  = color.NRGBA{0, 0, 0, 255}
	colGreen  = color.NRGBA{0, 255, 0, 255}
	colGlow   = color.NRGBA{0, 255, 0, 60}
	colDim    = color.NRGBA{0, 110, 0, 255}
	colGrid   = color.NRGBA{17, 17, 17, 255}
	colRed    = color.NRGBA{255, 0, 0, 255}
	colFood   = color.NRGBA{255, 102, 102, 255}
	colWhite  = color.NRGBA{255, 255, 255, 255}
	colGold   = color.NRGBA{250, 204, 21, 255}
	colSilver = color.NRGBA{209, 213, 219, 255}
	colBronze = color.NRGBA{251, 146, 60, 255}
)

// hexColor parses "#rrggbb". Anything else renders white.
func hexColor(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return colWhite
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return colWhite
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// rankColor tints the first three leaderboard places.
func rankColor(i int) color.NRGBA {
	switch i {
	case 0:
		return colGold
	case 1:
		return colSilver
	case 2:
		return colBronze
	}
	return colDim
}
