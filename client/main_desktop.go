//go:build !android

package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/game"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

func main() {
	game.SetPlatform("desktop")
	log.Println("Desktop main() starting...")
	ebiten.SetWindowTitle("Solana Snake")
	ebiten.SetWindowSize(900, 600)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(protocol.FrameRate)
	if err := ebiten.RunGame(game.New()); err != nil {
		log.Fatal(err)
	}
}
