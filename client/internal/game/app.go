package game

import (
	"context"
	"image"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/api"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/netcfg"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/play"
	"github.com/michaelpaglia/fun-sunday-work/shared/feed"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

const (
	topBarH = 30
	footerH = 20
	screenW = protocol.CanvasW
	screenH = protocol.CanvasH + topBarH + footerH
)

type screen int

const (
	screenWallet screen = iota
	screenLoading
	screenPlay
	screenError
)

var platform = "desktop"

// SetPlatform switches input handling; "android" and "ios" enable swipes.
func SetPlatform(p string) { platform = p }

func touchPlatform() bool { return platform == "android" || platform == "ios" }

type Game struct {
	scr    screen
	cfg    sim.Config
	client *api.Client
	prefs  api.Prefs

	// wallet screen
	wallet     *textBox
	walletMsg  string
	startBtn   image.Rectangle
	accountBtn image.Rectangle
	account    *AccountUI
	username   string

	// loading / error
	loading    <-chan play.LoadResult
	loadCancel context.CancelFunc
	errMsg     string
	started    time.Time

	// play
	match       *play.Match
	showSnakes  bool
	snakeRects  []snakeRect
	board       *boardUI
	flashUntil  time.Time
	sparks      *Particles
	touchID     ebiten.TouchID
	touchActive bool
	touchX      int
	touchY      int
}

type snakeRect struct {
	id string
	r  image.Rectangle
}

// New creates the game. A saved account token, if any, is reused so scores
// keep the player's name.
func New() ebiten.Game {
	g := &Game{
		scr:    screenWallet,
		cfg:    sim.DefaultConfig(),
		client: api.New(netcfg.APIBase),
		sparks: newParticles(time.Now().UnixNano()),
	}
	g.wallet = newTextBox("", 200, 330, 500, false, uiFace())
	g.wallet.MaxLen = 44
	g.wallet.Accept = isBase58
	g.wallet.focused = true
	g.wallet.Value = g.prefs.LoadWallet()

	if tok := g.prefs.LoadToken(); tok != "" {
		g.client.SetToken(tok)
		g.username = g.prefs.LoadUsername()
	}
	return g
}

func isBase58(r rune) bool {
	switch {
	case r >= '1' && r <= '9':
		return true
	case r >= 'A' && r <= 'Z':
		return r != 'I' && r != 'O'
	case r >= 'a' && r <= 'z':
		return r != 'l'
	}
	return false
}

func (g *Game) Update() error {
	switch g.scr {
	case screenWallet:
		g.updateWallet()
	case screenLoading:
		g.updateLoading()
	case screenPlay:
		g.updatePlay()
	case screenError:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
			g.scr = screenWallet
		}
	}
	return nil
}

func (g *Game) updateWallet() {
	if g.account != nil {
		g.account.Update()
		if g.account.Done() {
			if u := g.account.Username(); u != "" {
				g.username = u
			}
			g.account = nil
		}
		return
	}

	g.wallet.update()
	if g.wallet.pasteErr != "" {
		g.walletMsg = g.wallet.pasteErr
		g.wallet.pasteErr = ""
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.account = NewAccountUI(g.client, g.prefs)
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) && g.username != "" {
		g.prefs.ClearToken()
		g.client.SetToken("")
		g.username = ""
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.startLoad()
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		switch {
		case ptIn(mx, my, g.startBtn):
			g.startLoad()
		case ptIn(mx, my, g.accountBtn):
			g.account = NewAccountUI(g.client, g.prefs)
		}
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		if ptIn(x, y, g.startBtn) {
			g.startLoad()
		}
	}
}

func (g *Game) startLoad() {
	addr := strings.TrimSpace(g.wallet.Value)
	switch {
	case addr == "":
		g.walletMsg = "ENTER WALLET ADDRESS"
		return
	case !protocol.ValidWalletAddress(addr):
		g.walletMsg = "INVALID ADDRESS FORMAT"
		return
	}
	g.walletMsg = ""
	if err := g.prefs.SaveWallet(addr); err != nil {
		log.Printf("save wallet: %v", err)
	}

	// a named account keeps its own token; only anonymous play needs a guest session
	var wallets feed.WalletSource = g.client
	if g.username != "" {
		wallets = struct{ feed.WalletSource }{g.client}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	g.loadCancel = cancel
	g.loading = play.LoadAsync(ctx, wallets, g.client, addr)
	g.started = time.Now()
	g.scr = screenLoading
}

func (g *Game) updateLoading() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.loadCancel()
		g.loading = nil
		g.scr = screenWallet
		return
	}
	select {
	case res, ok := <-g.loading:
		if !ok {
			return
		}
		g.loadCancel()
		g.loading = nil
		if res.Err != nil {
			log.Printf("LOAD: %v", res.Err)
			g.errMsg = play.ErrorText(res.Err)
			g.scr = screenError
			return
		}
		interval := time.Duration(protocol.PriceRefreshMs) * time.Millisecond
		g.match = play.NewMatch(g.cfg, sim.NewTimeRand(), res.Tokens, res.Wallet, g.client, interval)
		g.board = nil
		g.showSnakes = false
		g.scr = screenPlay
		log.Printf("PLAY: %d snakes for %s", len(res.Tokens), protocol.ShortAddress(res.Wallet))
	default:
	}
}

func (g *Game) updatePlay() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if g.board != nil {
			g.board.close()
			g.board = nil
			return
		}
		g.exitMatch()
		return
	}

	if g.board != nil {
		g.board.update(g.match)
		if g.board.done || inpututil.IsKeyJustPressed(ebiten.KeyL) {
			g.board.close()
			g.board = nil
		}
	} else {
		g.handlePlayInput()
	}

	events := g.match.Frame()
	if len(events) > 0 {
		if me, ok := g.match.Session().Snapshot().Selected(); ok {
			for _, ev := range events {
				g.sparks.ForEvent(ev, me.Head())
				playEat(ev.Kind)
			}
		}
	}
	for _, ev := range events {
		if ev.Kind == sim.EatSnake {
			g.flashUntil = time.Now().Add(250 * time.Millisecond)
		}
	}
	g.sparks.Update()
}

var digitKeys = [...]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

func (g *Game) handlePlayInput() {
	keys := map[ebiten.Key]sim.Direction{
		ebiten.KeyArrowUp: sim.Up, ebiten.KeyW: sim.Up,
		ebiten.KeyArrowDown: sim.Down, ebiten.KeyS: sim.Down,
		ebiten.KeyArrowLeft: sim.Left, ebiten.KeyA: sim.Left,
		ebiten.KeyArrowRight: sim.Right, ebiten.KeyD: sim.Right,
	}
	for k, d := range keys {
		if inpututil.IsKeyJustPressed(k) {
			g.match.Session().ChangeDirection(d)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.match.SelectNext()
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.match.SelectRank(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.showSnakes = !g.showSnakes
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.board = openBoard(g.client)
	}
	if g.showSnakes && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		for _, sr := range g.snakeRects {
			if ptIn(mx, my, sr.r) {
				g.match.Session().Select(sr.id)
			}
		}
	}
	if touchPlatform() {
		g.handleSwipe()
	}
}

// handleSwipe turns a touch drag of at least 24px into a direction change.
func (g *Game) handleSwipe() {
	if !g.touchActive {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			g.touchID = ids[0]
			g.touchX, g.touchY = ebiten.TouchPosition(g.touchID)
			g.touchActive = true
		}
		return
	}
	if !inpututil.IsTouchJustReleased(g.touchID) {
		return
	}
	g.touchActive = false
	x, y := inpututil.TouchPositionInPreviousTick(g.touchID)
	dx, dy := x-g.touchX, y-g.touchY
	if dx*dx+dy*dy < 24*24 {
		return
	}
	var d sim.Direction
	switch {
	case abs(dx) > abs(dy) && dx > 0:
		d = sim.Right
	case abs(dx) > abs(dy):
		d = sim.Left
	case dy > 0:
		d = sim.Down
	default:
		d = sim.Up
	}
	g.match.Session().ChangeDirection(d)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (g *Game) exitMatch() {
	if g.board != nil {
		g.board.close()
		g.board = nil
	}
	if g.match != nil {
		g.match.Stop()
		log.Printf("PLAY: stopped with score %d", g.match.Session().Score())
		g.match = nil
	}
	g.sparks.Clear()
	g.scr = screenWallet
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBlack)
	switch g.scr {
	case screenWallet:
		g.drawWallet(screen)
		if g.account != nil {
			g.account.Draw(screen)
		}
	case screenLoading:
		g.drawLoading(screen)
	case screenPlay:
		g.drawPlay(screen)
	case screenError:
		g.drawError(screen)
	}
}

func (g *Game) Layout(w, h int) (int, int) { return screenW, screenH }
