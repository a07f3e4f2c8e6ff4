// Package mobile is the gomobile bind entry point for the Android build.
package mobile

import (
	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/game"
)

func init() {
	game.SetPlatform("android")
	mobile.SetGame(game.New())
}

// Dummy gives gomobile bind an exported symbol.
func Dummy() {}
