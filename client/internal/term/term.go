// Package term renders a match in a terminal with tcell.
package term

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/play"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

const (
	frame      = 16 * time.Millisecond
	panelWidth = 26
	boardRows  = 15
)

var (
	styleHUD  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleDim  = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleFood = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleErr  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleGold = tcell.StyleDefault.Foreground(tcell.ColorGold)
)

// View drives one match on a screen. Submit and Board are optional; without
// them the score cannot leave the terminal.
type View struct {
	Screen tcell.Screen
	Match  *play.Match
	Sound  Sounder
	Submit func(ctx context.Context, sub protocol.ScoreSubmission) error
	Board  func(ctx context.Context) (protocol.Leaderboard, error)

	showSnakes bool
	board      *protocol.Leaderboard
	status     string
	submitted  bool
	results    chan func()
}

// Run ticks the match and redraws until ctx ends or the player quits.
func (v *View) Run(ctx context.Context) error {
	if v.Sound == nil {
		v.Sound = Silent()
	}
	v.results = make(chan func(), 4)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.Screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	t := time.NewTicker(frame)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if v.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				v.Screen.Sync()
			}
		case apply := <-v.results:
			apply()
		case <-t.C:
			for _, e := range v.Match.Frame() {
				v.Sound.Eat(e.Kind)
			}
			v.Draw()
		}
	}
}

// HandleKey applies one key press. It reports whether the player asked to quit.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	s := v.Match.Session()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		s.ChangeDirection(sim.Up)
	case tcell.KeyDown:
		s.ChangeDirection(sim.Down)
	case tcell.KeyLeft:
		s.ChangeDirection(sim.Left)
	case tcell.KeyRight:
		s.ChangeDirection(sim.Right)
	case tcell.KeyTab:
		v.Match.SelectNext()
	case tcell.KeyEnter:
		v.submit()
	case tcell.KeyRune:
		r := ev.Rune()
		if d, ok := play.DirectionForKey(string(r)); ok {
			s.ChangeDirection(d)
			break
		}
		switch {
		case r == 'q':
			return true
		case r == 't':
			v.showSnakes = !v.showSnakes
		case r == 'l':
			v.toggleBoard()
		case r >= '1' && r <= '9':
			v.Match.SelectRank(int(r - '1'))
		}
	}
	return false
}

func (v *View) submit() {
	sub, ok := v.Match.Submission()
	if !ok || v.Submit == nil || v.submitted {
		return
	}
	v.submitted = true
	v.status = "SUBMITTING..."
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := v.Submit(ctx, sub)
		if err != nil {
			log.Printf("TERM: submit: %v", err)
		}
		v.deliver(func() {
			v.status = play.SubmitStatus(err)
			v.submitted = err == nil
		})
	}()
}

func (v *View) toggleBoard() {
	if v.board != nil || v.Board == nil {
		v.board = nil
		return
	}
	v.board = &protocol.Leaderboard{}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		lb, err := v.Board(ctx)
		if err != nil {
			lb = protocol.Leaderboard{Error: "Failed to fetch leaderboard"}
		}
		v.deliver(func() {
			if v.board != nil {
				v.board = &lb
			}
		})
	}()
}

// deliver hands a result back to the loop goroutine.
func (v *View) deliver(f func()) {
	if v.results == nil {
		f()
		return
	}
	v.results <- f
}

// Draw renders the latest snapshot and shows it.
func (v *View) Draw() {
	w := v.Match.Session().Snapshot()
	v.Screen.Clear()
	cols, rows := v.Screen.Size()

	status := v.status
	if status == "" && v.Match.PriceErr() != nil {
		status = "PRICES STALE"
	}
	DrawWorld(v.Screen, w, cols, rows, status)
	if v.showSnakes {
		drawRanking(v.Screen, w, cols-panelWidth, 1)
	}
	if v.board != nil {
		drawBoard(v.Screen, v.board, 2, 2)
	}
	putString(v.Screen, 0, rows-1, "ARROWS/WASD move  TAB/1-9 switch  t snakes  l board  ENTER submit  q quit", styleDim)
	v.Screen.Show()
}

// DrawWorld maps the play field onto rows 1..rows-2 of the screen and puts
// the HUD on row 0.
func DrawWorld(scr tcell.Screen, w sim.World, cols, rows int, status string) {
	fieldRows := rows - 2
	if cols <= 0 || fieldRows <= 0 || w.Width <= 0 || w.Height <= 0 {
		return
	}
	cell := func(x, y float64) (int, int) {
		cx := int(x / w.Width * float64(cols))
		cy := int(y / w.Height * float64(fieldRows))
		return min(max(cx, 0), cols-1), 1 + min(max(cy, 0), fieldRows-1)
	}

	for _, f := range w.Food {
		x, y := cell(f.X, f.Y)
		scr.SetContent(x, y, '*', nil, styleFood)
	}
	for _, s := range w.Snakes {
		if len(s.Segments) == 0 {
			continue
		}
		st := tcell.StyleDefault.Foreground(tcell.GetColor(s.Color))
		for i := len(s.Segments) - 1; i > 0; i-- {
			x, y := cell(s.Segments[i].X, s.Segments[i].Y)
			scr.SetContent(x, y, 'o', nil, st)
		}
		head := 'O'
		if s.ID == w.SelectedID {
			head = '@'
			st = st.Bold(true).Reverse(true)
		}
		x, y := cell(s.Head().X, s.Head().Y)
		scr.SetContent(x, y, head, nil, st)
	}

	hud := fmt.Sprintf("SCORE: %d", w.Score)
	if s, ok := w.Selected(); ok {
		hud += fmt.Sprintf("  PLAYING %s %+.1f%% SIZE %.0f", s.Token.Symbol, s.Token.PriceChange, s.CurrentSize)
	}
	putString(scr, 0, 0, hud, styleHUD)
	if status != "" {
		putString(scr, max(0, cols-len(status)-1), 0, status, styleErr)
	}
}

func drawRanking(scr tcell.Screen, w sim.World, x, y int) {
	putString(scr, x, y, "LEADERBOARD", styleHUD)
	ranked := play.Ranking(w)
	if len(ranked) == 0 {
		putString(scr, x, y+1, "NO SNAKES...", styleDim)
		return
	}
	for i, s := range ranked {
		st := tcell.StyleDefault.Foreground(tcell.GetColor(s.Color))
		if s.ID == w.SelectedID {
			st = st.Reverse(true)
		}
		putString(scr, x, y+1+i, fmt.Sprintf("%d. %-8s %+7.1f%%", i+1, s.Token.Symbol, s.Token.PriceChange), st)
	}
}

func drawBoard(scr tcell.Screen, lb *protocol.Leaderboard, x, y int) {
	putString(scr, x, y, "GLOBAL LEADERBOARD", styleGold)
	switch {
	case lb.Error != "":
		putString(scr, x, y+2, lb.Error, styleErr)
	case lb.GeneratedAt == 0 && len(lb.Items) == 0:
		putString(scr, x, y+2, "LOADING...", styleDim)
	case len(lb.Items) == 0:
		putString(scr, x, y+2, "NO SCORES YET", styleDim)
	default:
		for i, e := range lb.Items {
			if i >= boardRows {
				break
			}
			name := e.WalletShort
			if e.Player != "" {
				name = e.Player
			}
			putString(scr, x, y+2+i, fmt.Sprintf("%2d. %-14s %-8s %8d", i+1, name, e.TopSnake, e.Score), styleHUD)
		}
	}
}

func putString(scr tcell.Screen, x, y int, s string, st tcell.Style) {
	for _, r := range s {
		scr.SetContent(x, y, r, nil, st)
		x++
	}
}
