//go:build android

package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/game"
)

func init() {
	log.Println("Android init: SetGame")
	game.SetPlatform("android")
	mobile.SetGame(game.New())
}
func main() {}
