package fonts

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

// Arcade look: everything is monospace. Titles use the bold cut.
var files = map[string][]byte{
	"title": gomonobold.TTF,
	"ui":    gomono.TTF,
}

type key struct {
	file string
	size float64
}

var (
	mu    sync.Mutex
	cache = map[key]font.Face{}
)

func face(file string, size float64) font.Face {
	k := key{file, size}
	mu.Lock()
	defer mu.Unlock()

	if f, ok := cache[k]; ok {
		return f
	}
	ft, err := opentype.Parse(files[file])
	if err != nil {
		panic("fonts: parse " + file + ": " + err.Error())
	}
	f, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic("fonts: face: " + err.Error())
	}
	cache[k] = f
	return f
}

func Title(size float64) font.Face { return face("title", size) }
func UI(size float64) font.Face    { return face("ui", size) }

// DrawGlow draws s with a soft halo in glow, CRT style.
func DrawGlow(dst *ebiten.Image, s string, x, y int, size float64, fill, glow color.Color) {
	ff := Title(size)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			text.Draw(dst, s, ff, x+dx, y+dy, glow)
		}
	}
	text.Draw(dst, s, ff, x, y, fill)
}

// Centered draws s with its horizontal center at cx.
func Centered(dst *ebiten.Image, s string, ff font.Face, cx, y int, col color.Color) {
	w := text.BoundString(ff, s).Dx()
	text.Draw(dst, s, ff, cx-w/2, y, col)
}
