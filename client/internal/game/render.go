package game

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/game/assets/fonts"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/play"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

const cell = 16

func uiFace() font.Face { return fonts.UI(14) }

func blink(period time.Duration) bool {
	return time.Now().UnixMilli()/period.Milliseconds()%2 == 0
}

/* ------------------------ Wallet ------------------------ */

func (g *Game) drawWallet(screen *ebiten.Image) {
	cx := screenW / 2
	title := "SOLANA SNAKE"
	tw := text.BoundString(fonts.Title(40), title).Dx()
	fonts.DrawGlow(screen, title, cx-tw/2, 110, 40, colGreen, colGlow)
	fonts.Centered(screen, "YOUR TOKENS. YOUR SNAKES.", fonts.UI(14), cx, 145, colDim)

	small := fonts.UI(12)
	lines := []string{
		"ENTER YOUR SOLANA WALLET ADDRESS",
		"AND WATCH YOUR TOKENS COME ALIVE",
		"",
		"PRICE UP = SNAKE GROWS",
		"PRICE DOWN = SNAKE SHRINKS",
		"EAT FOOD + SMALLER SNAKES",
	}
	for i, l := range lines {
		fonts.Centered(screen, l, small, cx, 185+i*18, colGreen)
	}

	g.wallet.draw(screen, "WALLET ADDRESS...")
	if g.walletMsg != "" {
		fonts.Centered(screen, g.walletMsg, small, cx, 392, colRed)
	}
	g.startBtn = image.Rect(cx-110, 405, cx+110, 447)
	drawButton(screen, g.startBtn, "START GAME", true)

	acct := "[F2] LOGIN FOR A NAMED SCORE"
	if g.username != "" {
		acct = fmt.Sprintf("PLAYING AS %s   [F3] LOGOUT", g.username)
	}
	g.accountBtn = image.Rect(cx-160, 462, cx+160, 480)
	fonts.Centered(screen, acct, small, cx, 476, colDim)

	fonts.Centered(screen, "CONTROLS: ARROWS OR WASD  [CTRL+V] PASTE", small, cx, 530, colDim)
	if blink(700 * time.Millisecond) {
		fonts.Centered(screen, "INSERT COIN TO PLAY", fonts.Title(14), cx, 570, colGold)
	}
}

/* ------------------------ Loading / error ------------------------ */

func (g *Game) drawLoading(screen *ebiten.Image) {
	cx, cy := screenW/2, screenH/2
	if blink(400 * time.Millisecond) {
		fonts.DrawGlow(screen, "LOADING...", cx-70, cy, 24, colGreen, colGlow)
	}
	fonts.Centered(screen, fmt.Sprintf("%.0fs  [ESC] CANCEL", time.Since(g.started).Seconds()), fonts.UI(12), cx, cy+40, colDim)
}

func (g *Game) drawError(screen *ebiten.Image) {
	cx, cy := screenW/2, screenH/2
	over := "GAME OVER"
	tw := text.BoundString(fonts.Title(32), over).Dx()
	fonts.DrawGlow(screen, over, cx-tw/2, cy-30, 32, colRed, color.NRGBA{255, 0, 0, 60})
	fonts.Centered(screen, g.errMsg, fonts.UI(14), cx, cy+10, colFood)
	fonts.Centered(screen, "[ENTER] TRY AGAIN", fonts.Title(14), cx, cy+60, colGreen)
}

/* ------------------------ Play ------------------------ */

func (g *Game) drawPlay(screen *ebiten.Image) {
	w := g.match.Session().Snapshot()

	field := screen.SubImage(image.Rect(0, topBarH, screenW, topBarH+protocol.CanvasH)).(*ebiten.Image)
	drawField(field, w, topBarH)
	g.sparks.Draw(field, topBarH)
	if time.Now().Before(g.flashUntil) {
		vector.StrokeRect(screen, 0, topBarH, screenW, protocol.CanvasH, 6, colGold, false)
	}

	g.drawTopBar(screen, w)
	small := fonts.UI(10)
	fonts.Centered(screen, "[ARROWS] MOVE  [TAB/1-9] SWITCH  [T] SNAKES  [L] LEADERBOARD  [ESC] EXIT",
		small, screenW/2, screenH-6, colDim)

	g.snakeRects = g.snakeRects[:0]
	if g.showSnakes {
		g.drawSelector(screen, w)
	}
	if g.board != nil {
		g.board.draw(screen, g.match)
	}
}

func (g *Game) drawTopBar(screen *ebiten.Image, w sim.World) {
	face := fonts.Title(14)
	text.Draw(screen, fmt.Sprintf("SCORE: %d", w.Score), face, 12, 21, colGreen)
	if s, ok := w.Selected(); ok {
		text.Draw(screen, fmt.Sprintf("PLAYING %s  SIZE %.0f", s.Token.Symbol, s.CurrentSize), fonts.UI(12), 200, 20, hexColor(s.Color))
	}
	if g.match.PriceErr() != nil {
		text.Draw(screen, "PRICES STALE", fonts.UI(12), 470, 20, colRed)
	}
	who := protocol.ShortAddress(g.match.Wallet)
	if g.username != "" {
		who = g.username + " " + who
	}
	ww := text.BoundString(fonts.UI(12), who).Dx()
	text.Draw(screen, who, fonts.UI(12), screenW-ww-12, 20, colDim)
}

// drawField renders the world into dst, whose bounds start at y = offY.
func drawField(dst *ebiten.Image, w sim.World, offY int) {
	oy := float32(offY)
	fw, fh := float32(w.Width), float32(w.Height)

	for x := float32(0); x <= fw; x += cell * 2 {
		vector.StrokeLine(dst, x, oy, x, oy+fh, 1, colGrid, false)
	}
	for y := float32(0); y <= fh; y += cell * 2 {
		vector.StrokeLine(dst, 0, oy+y, fw, oy+y, 1, colGrid, false)
	}
	vector.StrokeRect(dst, 1, oy+1, fw-2, fh-2, 3, colGreen, false)

	for _, f := range w.Food {
		x, y := float32(f.X), oy+float32(f.Y)
		vector.DrawFilledRect(dst, x-cell/2, y-cell/2, cell, cell, colRed, false)
		vector.DrawFilledRect(dst, x-cell/4, y-cell/4, cell/2, cell/2, colFood, false)
	}

	for _, s := range w.Snakes {
		drawSnake(dst, s, s.ID == w.SelectedID, oy)
	}
}

func drawSnake(dst *ebiten.Image, s sim.Snake, selected bool, oy float32) {
	if len(s.Segments) == 0 {
		return
	}
	size := float32(sim.VisualScale(s.CurrentSize))
	col := hexColor(s.Color)
	for i := len(s.Segments) - 1; i >= 0; i-- {
		seg := s.Segments[i]
		ss := size - float32(i)*0.5
		if ss < 2 {
			ss = 2
		}
		vector.DrawFilledRect(dst, float32(seg.X)-ss/2, oy+float32(seg.Y)-ss/2, ss, ss, col, false)
	}

	head := s.Head()
	hx, hy := float32(head.X), oy+float32(head.Y)
	if selected {
		vector.StrokeRect(dst, hx-size/2-2, hy-size/2-2, size+4, size+4, 2, colGreen, false)
	}

	// eyes sit on the leading edge
	eye := max(3, size/6)
	off := size / 4
	e1x, e1y, e2x, e2y := hx-off, hy-off, hx+off, hy-off
	switch s.Direction {
	case sim.Down:
		e1y, e2y = hy+off, hy+off
	case sim.Left:
		e1x, e1y, e2x, e2y = hx-off, hy-off, hx-off, hy+off
	case sim.Right:
		e1x, e1y, e2x, e2y = hx+off, hy-off, hx+off, hy+off
	}
	vector.DrawFilledRect(dst, e1x-eye/2, e1y-eye/2, eye, eye, colWhite, false)
	vector.DrawFilledRect(dst, e2x-eye/2, e2y-eye/2, eye, eye, colWhite, false)

	sym := s.Token.Symbol
	if len(sym) > 6 {
		sym = sym[:6]
	}
	fonts.Centered(dst, sym, fonts.UI(9), int(hx), int(hy-size/2-6), colWhite)
	pct := s.Token.PriceChange
	pc := colGreen
	sign := "+"
	if pct < 0 {
		pc, sign = colRed, ""
	}
	fonts.Centered(dst, fmt.Sprintf("%s%.0f%%", sign, pct), fonts.UI(8), int(hx), int(hy-size/2-16), pc)
}

// drawSelector lists snakes by price change; a click takes control.
func (g *Game) drawSelector(screen *ebiten.Image, w sim.World) {
	ranked := play.Ranking(w)
	if len(ranked) > protocol.MaxSnakes {
		ranked = ranked[:protocol.MaxSnakes]
	}
	const x, width, rowH = 640, 250, 24
	y := topBarH + 10
	h := 40 + rowH*max(1, len(ranked))
	vector.DrawFilledRect(screen, x, float32(y), width, float32(h), color.NRGBA{0, 0, 0, 230}, false)
	vector.StrokeRect(screen, x, float32(y), width, float32(h), 2, colGreen, false)
	text.Draw(screen, "LEADERBOARD", fonts.Title(14), x+12, y+24, colGreen)

	face := fonts.UI(12)
	if len(ranked) == 0 {
		text.Draw(screen, "NO SNAKES...", face, x+12, y+52, colDim)
		return
	}
	for i, s := range ranked {
		top := y + 34 + i*rowH
		r := image.Rect(x+6, top, x+width-6, top+rowH-2)
		g.snakeRects = append(g.snakeRects, snakeRect{id: s.ID, r: r})

		fg := colGreen
		if s.ID == w.SelectedID {
			vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), colGreen, false)
			fg = colBlack
		}
		base := top + rowH - 8
		text.Draw(screen, fmt.Sprintf("%d.", i+1), face, x+12, base, fg)
		vector.DrawFilledRect(screen, x+40, float32(base-10), 10, 10, hexColor(s.Color), false)
		text.Draw(screen, s.Token.Symbol, face, x+58, base, fg)

		pct := s.Token.PriceChange
		label := fmt.Sprintf("%+.1f%%", pct)
		pc := colGreen
		if pct < 0 {
			pc = colRed
		}
		if s.ID == w.SelectedID {
			pc = colBlack
		}
		text.Draw(screen, label, face, x+width-12-text.BoundString(face, label).Dx(), base, pc)
	}
}
