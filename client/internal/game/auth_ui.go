package game

import (
	"context"
	"image"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/api"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/game/assets/fonts"
)

/* ------------------------ TextBox ------------------------ */

type textBox struct {
	Title    string
	Value    string
	Mask     bool
	MaxLen   int
	Accept   func(r rune) bool // nil accepts any printable rune
	X, Y     int
	W, H     int
	focused  bool
	cursorOn bool

	lastBlink time.Time
	face      font.Face
	pasteErr  string
}

func newTextBox(title string, x, y, w int, mask bool, face font.Face) *textBox {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &textBox{
		Title: title, X: x, Y: y, W: w, H: 40,
		Mask: mask, face: face, lastBlink: time.Now(),
	}
}

func (t *textBox) rectContains(mx, my int) bool {
	return mx >= t.X && mx <= t.X+t.W && my >= t.Y && my <= t.Y+t.H
}

func (t *textBox) insert(s string) {
	for _, r := range s {
		if r < 32 {
			continue
		}
		if t.Accept != nil && !t.Accept(r) {
			continue
		}
		if t.MaxLen > 0 && len([]rune(t.Value)) >= t.MaxLen {
			return
		}
		t.Value += string(r)
	}
}

func (t *textBox) update() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		t.focused = t.rectContains(mx, my)
	}
	if time.Since(t.lastBlink) > 500*time.Millisecond {
		t.cursorOn = !t.cursorOn
		t.lastBlink = time.Now()
	}
	if !t.focused {
		return
	}
	t.insert(string(ebiten.AppendInputChars(nil)))

	// single step so a held key does not eat the whole field
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(t.Value) > 0 {
		r := []rune(t.Value)
		t.Value = string(r[:len(r)-1])
	}
	paste := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if paste && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		s, err := clipboard.ReadAll()
		if err != nil {
			t.pasteErr = "PASTE FAILED (install xclip or xsel on Linux)"
			log.Println("clipboard paste failed:", err)
			return
		}
		t.pasteErr = ""
		t.insert(strings.TrimSpace(s))
	}
}

func (t *textBox) draw(dst *ebiten.Image, placeholder string) {
	border := colDim
	if t.focused {
		border = colGreen
	}
	vector.DrawFilledRect(dst, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), colBlack, false)
	vector.StrokeRect(dst, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), 2, border, false)

	val := t.Value
	if t.Mask && val != "" {
		val = strings.Repeat("*", len([]rune(t.Value)))
	}
	lineH := text.BoundString(t.face, "Hg").Dy()
	baseline := t.Y + (t.H+lineH)/2 - 2
	const padX = 12

	if t.Title != "" {
		text.Draw(dst, t.Title, t.face, t.X, t.Y-8, colDim)
	}
	if val == "" && !t.focused && placeholder != "" {
		text.Draw(dst, placeholder, t.face, t.X+padX, baseline, colDim)
		return
	}
	// keep the caret end visible when the value outgrows the box
	for len(val) > 1 && text.BoundString(t.face, val).Dx() > t.W-2*padX {
		val = val[1:]
	}
	text.Draw(dst, val, t.face, t.X+padX, baseline, colGreen)
	if t.focused && t.cursorOn {
		w := text.BoundString(t.face, val).Dx()
		text.Draw(dst, "_", t.face, t.X+padX+w+2, baseline, colGreen)
	}
}

/* ------------------------ Account panel ------------------------ */

type AuthMode int

const (
	AuthLogin AuthMode = iota
	AuthRegister
)

type authResult struct {
	username string
	token    string
	err      error
}

// AccountUI signs in a named account so scores carry a player name. Playing
// never requires it; a wallet alone gets a guest session.
type AccountUI struct {
	mode    AuthMode
	user    *textBox
	pass    *textBox
	confirm *textBox
	msg     string
	busy    bool
	done    bool
	results chan authResult

	client   *api.Client
	prefs    api.Prefs
	username string

	loginBtn, switchBtn, closeBtn image.Rectangle
}

func NewAccountUI(c *api.Client, prefs api.Prefs) *AccountUI {
	face := fonts.UI(14)
	a := &AccountUI{
		client:  c,
		prefs:   prefs,
		results: make(chan authResult, 1),
		user:    newTextBox("USERNAME", 300, 200, 300, false, face),
		pass:    newTextBox("PASSWORD", 300, 270, 300, true, face),
		confirm: newTextBox("CONFIRM", 300, 340, 300, true, face),
	}
	a.user.MaxLen = 32
	a.user.focused = true
	return a
}

func (a *AccountUI) boxes() []*textBox {
	if a.mode == AuthRegister {
		return []*textBox{a.user, a.pass, a.confirm}
	}
	return []*textBox{a.user, a.pass}
}

func (a *AccountUI) focusNext() {
	bs := a.boxes()
	next := 0
	for i, b := range bs {
		if b.focused {
			next = (i + 1) % len(bs)
		}
		b.focused = false
	}
	bs[next].focused = true
}

func (a *AccountUI) Update() {
	select {
	case r := <-a.results:
		a.busy = false
		if r.err != nil {
			a.msg = strings.ToUpper(r.err.Error())
			break
		}
		if r.token == "" {
			// registered; log in with the same credentials
			a.mode = AuthLogin
			a.msg = "ACCOUNT CREATED"
			a.submit()
			break
		}
		a.username = r.username
		if err := a.prefs.SaveToken(r.token); err != nil {
			log.Printf("save token: %v", err)
		}
		if err := a.prefs.SaveUsername(r.username); err != nil {
			log.Printf("save username: %v", err)
		}
		a.done = true
		return
	default:
	}

	for _, b := range a.boxes() {
		b.update()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		a.focusNext()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.submit()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		switch {
		case ptIn(mx, my, a.loginBtn):
			a.submit()
		case ptIn(mx, my, a.switchBtn):
			if a.mode == AuthLogin {
				a.mode = AuthRegister
			} else {
				a.mode = AuthLogin
			}
			a.msg = ""
		case ptIn(mx, my, a.closeBtn):
			a.done = true
		}
	}
}

func (a *AccountUI) submit() {
	if a.busy {
		return
	}
	user := strings.TrimSpace(a.user.Value)
	pass := a.pass.Value
	if user == "" || pass == "" {
		a.msg = "ENTER USERNAME AND PASSWORD"
		return
	}
	if a.mode == AuthRegister && pass != a.confirm.Value {
		a.msg = "PASSWORDS DO NOT MATCH"
		return
	}
	a.busy = true
	a.msg = ""
	mode := a.mode
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var r authResult
		if mode == AuthRegister {
			r.err = a.client.Register(ctx, user, pass)
		} else {
			resp, err := a.client.Login(ctx, user, pass)
			r = authResult{username: resp.Username, token: resp.Token, err: err}
			if r.username == "" {
				r.username = user
			}
		}
		a.results <- r
	}()
}

func (a *AccountUI) Draw(screen *ebiten.Image) {
	drawPanel(screen, 250, 110, 400, 380)
	title := "LOGIN"
	if a.mode == AuthRegister {
		title = "REGISTER"
	}
	fonts.DrawGlow(screen, title, 280, 160, 22, colGreen, colGlow)
	for _, b := range a.boxes() {
		b.draw(screen, "")
	}

	y := 410
	a.loginBtn = image.Rect(300, y, 440, y+36)
	a.switchBtn = image.Rect(460, y, 600, y+36)
	a.closeBtn = image.Rect(610, 120, 640, 144)
	label := "LOGIN"
	other := "REGISTER"
	if a.mode == AuthRegister {
		label, other = "CREATE", "LOGIN"
	}
	if a.busy {
		label = "..."
	}
	drawButton(screen, a.loginBtn, label, true)
	drawButton(screen, a.switchBtn, other, false)
	text.Draw(screen, "[X]", fonts.UI(12), a.closeBtn.Min.X, a.closeBtn.Max.Y-6, colDim)
	if a.msg != "" {
		fonts.Centered(screen, a.msg, fonts.UI(12), 450, 470, colRed)
	}
}

func (a *AccountUI) Done() bool       { return a.done }
func (a *AccountUI) Username() string { return a.username }

/* ------------------------ Visual Helpers ------------------------ */

func ptIn(x, y int, r image.Rectangle) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

func drawPanel(dst *ebiten.Image, x, y, w, h int) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), color.NRGBA{0, 0, 0, 240}, false)
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), 3, colGreen, false)
	vector.StrokeRect(dst, float32(x-3), float32(y-3), float32(w+6), float32(h+6), 3, colGlow, false)
}

// drawButton draws a filled button when primary, an outlined one otherwise.
func drawButton(dst *ebiten.Image, r image.Rectangle, label string, primary bool) {
	face := fonts.Title(14)
	fg := colGreen
	if primary {
		vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), colGreen, false)
		fg = colBlack
	} else {
		vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 2, colGreen, false)
	}
	lb := text.BoundString(face, label)
	text.Draw(dst, label, face, r.Min.X+(r.Dx()-lb.Dx())/2, r.Min.Y+(r.Dy()+lb.Dy())/2-2, fg)
}
