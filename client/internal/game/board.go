package game

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/api"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/game/assets/fonts"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/netcfg"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/play"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

const boardRows = 12

type submitResult struct {
	entry protocol.LeaderboardEntry
	err   error
}

// boardUI is the global leaderboard overlay. It subscribes to live updates
// over the websocket and falls back to one HTTP fetch when that fails.
type boardUI struct {
	client *api.Client

	liveCh  chan *api.Live
	dialing bool
	live    *api.Live
	fetchCh chan protocol.Leaderboard
	subCh   chan submitResult

	board      protocol.Leaderboard
	loaded     bool
	submitting bool
	submitted  bool
	status     string
	scroll     int
	done       bool

	submitBtn image.Rectangle
	closeBtn  image.Rectangle
}

func openBoard(c *api.Client) *boardUI {
	b := &boardUI{
		client:  c,
		liveCh:  make(chan *api.Live, 1),
		fetchCh: make(chan protocol.Leaderboard, 1),
		subCh:   make(chan submitResult, 1),
		dialing: true,
	}
	go b.connect()
	return b
}

func (b *boardUI) connect() {
	l, err := api.Dial(netcfg.ServerURL, b.client.Token(), protocol.ParseEncoding(netcfg.Encoding))
	if err != nil {
		log.Printf("BOARD: live unavailable, fetching once: %v", err)
		b.fetch()
		b.liveCh <- nil
		return
	}
	b.liveCh <- l
}

func (b *boardUI) fetch() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	lb, err := b.client.Leaderboard(ctx)
	if err != nil {
		lb = protocol.Leaderboard{Error: "Failed to fetch leaderboard"}
		log.Printf("BOARD: %v", err)
	}
	select {
	case b.fetchCh <- lb:
	default:
		// drop the stale one
		select {
		case <-b.fetchCh:
		default:
		}
		b.fetchCh <- lb
	}
}

func (b *boardUI) update(m *play.Match) {
	select {
	case l := <-b.liveCh:
		b.live = l
		b.dialing = false
	default:
	}
	if b.live != nil {
	drain:
		for {
			select {
			case lb, ok := <-b.live.Boards():
				if !ok {
					b.live = nil
					break drain
				}
				b.board, b.loaded = lb, true
			default:
				break drain
			}
		}
	}
	select {
	case lb := <-b.fetchCh:
		b.board, b.loaded = lb, true
	default:
	}

	select {
	case r := <-b.subCh:
		b.submitting = false
		b.status = play.SubmitStatus(r.err)
		if r.err == nil {
			b.submitted = true
			log.Printf("BOARD: submitted %d", r.entry.Score)
			if b.live == nil {
				go b.fetch()
			}
		}
	default:
	}

	_, dy := ebiten.Wheel()
	switch {
	case dy < 0 || inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		b.scroll++
	case dy > 0 || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		b.scroll--
	}
	b.scroll = max(0, min(b.scroll, len(b.board.Items)-boardRows))

	wantSubmit := inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		wantSubmit = wantSubmit || ptIn(mx, my, b.submitBtn)
		b.done = ptIn(mx, my, b.closeBtn)
	}
	if wantSubmit {
		b.submit(m)
	}
}

func (b *boardUI) submit(m *play.Match) {
	sub, ok := m.Submission()
	if !ok || b.submitting || b.submitted {
		return
	}
	b.submitting = true
	b.status = ""
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		e, err := b.client.Submit(ctx, sub)
		b.subCh <- submitResult{entry: e, err: err}
	}()
}

func (b *boardUI) close() {
	if b.live != nil {
		_ = b.live.Close()
		b.live = nil
	}
	if b.dialing {
		// the dial in flight still owes us its connection
		go func() {
			if l := <-b.liveCh; l != nil {
				_ = l.Close()
			}
		}()
	}
}

func (b *boardUI) draw(screen *ebiten.Image, m *play.Match) {
	const x, y, w, h = 225, 60, 450, 480
	drawPanel(screen, x, y, w, h)
	fonts.DrawGlow(screen, "GLOBAL LEADERBOARD", x+20, y+36, 18, colGold, colGlow)
	b.closeBtn = image.Rect(x+w-40, y+14, x+w-10, y+36)
	text.Draw(screen, "[X]", fonts.UI(12), b.closeBtn.Min.X, b.closeBtn.Max.Y-6, colDim)

	face := fonts.UI(13)
	row := y + 70
	sub, ok := m.Submission()
	b.submitBtn = image.Rectangle{}
	if ok && !b.submitted {
		text.Draw(screen, fmt.Sprintf("YOUR SCORE: %d", sub.Score), face, x+20, row, colGreen)
		b.submitBtn = image.Rect(x+w-140, row-20, x+w-20, row+8)
		label := "SUBMIT"
		if b.submitting {
			label = "SUBMITTING..."
		}
		drawButton(screen, b.submitBtn, label, true)
		row += 28
	}
	if b.status != "" {
		col := colGreen
		if !b.submitted {
			col = colRed
		}
		text.Draw(screen, b.status, face, x+20, row, col)
		row += 24
	}
	row += 10

	switch {
	case !b.loaded:
		fonts.Centered(screen, "LOADING...", face, x+w/2, row+40, colDim)
	case b.board.Error != "":
		fonts.Centered(screen, b.board.Error, face, x+w/2, row+40, colRed)
	case len(b.board.Items) == 0:
		fonts.Centered(screen, "NO SCORES YET", face, x+w/2, row+40, colDim)
	default:
		end := min(len(b.board.Items), b.scroll+boardRows)
		for i := b.scroll; i < end; i++ {
			e := b.board.Items[i]
			name := e.WalletShort
			if e.Player != "" {
				name = e.Player
			}
			text.Draw(screen, fmt.Sprintf("%2d.", i+1), face, x+20, row, rankColor(i))
			text.Draw(screen, name, face, x+70, row, colGreen)
			text.Draw(screen, e.TopSnake, face, x+250, row, colDim)
			s := fmt.Sprintf("%d", e.Score)
			text.Draw(screen, s, face, x+w-20-text.BoundString(face, s).Dx(), row, colGold)
			row += 26
		}
	}
	fonts.Centered(screen, fmt.Sprintf("TOP %d PLAYERS", protocol.LeaderboardLimit), fonts.UI(11), x+w/2, y+h-14, colDim)
}
