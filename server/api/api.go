// Package api serves the HTTP endpoints the game clients call: wallet and
// price proxies plus score submission.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/michaelpaglia/fun-sunday-work/server/auth"
	"github.com/michaelpaglia/fun-sunday-work/server/leaderboard"
	"github.com/michaelpaglia/fun-sunday-work/server/metrics"
	"github.com/michaelpaglia/fun-sunday-work/server/prices"
	"github.com/michaelpaglia/fun-sunday-work/shared/feed"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

// APIError is an error with the status and message a client should see.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func badRequest(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: msg}
}

// Board is the live leaderboard: a readable snapshot plus change notification.
type Board interface {
	Board(ctx context.Context) (protocol.Leaderboard, error)
	Notify()
}

type Server struct {
	Wallets feed.WalletSource
	Prices  feed.PriceSource
	Store   leaderboard.Store // nil disables submissions
	Board   Board
	Timeout time.Duration

	now func() time.Time
}

func (s *Server) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Server) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	d := s.Timeout
	if d <= 0 {
		d = 15 * time.Second
	}
	return context.WithTimeout(r.Context(), d)
}

// Routes registers every endpoint on mux. Score submission sits behind a.
func (s *Server) Routes(mux *http.ServeMux, a *auth.Auth) {
	mux.Handle("GET /api/wallet", counted("wallet", http.HandlerFunc(s.HandleWallet)))
	mux.Handle("GET /api/prices", counted("prices", http.HandlerFunc(s.HandlePrices)))
	mux.Handle("GET /api/leaderboard", counted("leaderboard", http.HandlerFunc(s.HandleLeaderboard)))
	mux.Handle("POST /api/leaderboard", counted("submit", a.RequireAuth(http.HandlerFunc(s.HandleSubmit))))
	mux.Handle("POST /api/session", counted("session", http.HandlerFunc(a.HandleSession)))
	mux.Handle("POST /api/register", counted("register", http.HandlerFunc(a.HandleRegister)))
	mux.Handle("POST /api/login", counted("login", http.HandlerFunc(a.HandleLogin)))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// counted tallies each request under its route and response status.
func counted(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.Requests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
	})
}

// HandleWallet handles GET /api/wallet?address=
func (s *Server) HandleWallet(w http.ResponseWriter, r *http.Request) {
	addr := strings.TrimSpace(r.URL.Query().Get("address"))
	if addr == "" {
		writeError(w, badRequest("Wallet address is required"))
		return
	}
	if !protocol.ValidWalletAddress(addr) {
		writeError(w, badRequest("Invalid Solana address format"))
		return
	}
	ctx, cancel := s.ctx(r)
	defer cancel()
	tokens, err := s.Wallets.Tokens(ctx, addr)
	if err != nil {
		log.Printf("wallet %s: %v", protocol.ShortAddress(addr), err)
		metrics.Upstream.WithLabelValues("helius").Inc()
		writeError(w, &APIError{Status: http.StatusInternalServerError, Code: "WALLET_FETCH", Message: "Failed to fetch wallet tokens"})
		return
	}
	if tokens == nil {
		tokens = []protocol.Token{}
	}
	writeJSON(w, http.StatusOK, protocol.WalletResponse{Tokens: tokens})
}

// HandlePrices handles GET /api/prices?mints=a,b
func (s *Server) HandlePrices(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("mints")
	if raw == "" {
		writeError(w, badRequest("Token mints are required"))
		return
	}
	mints := prices.ParseMints(raw)
	if len(mints) == 0 {
		writeError(w, badRequest("At least one token mint is required"))
		return
	}
	ctx, cancel := s.ctx(r)
	defer cancel()
	got, err := s.Prices.Prices(ctx, mints)
	if err != nil {
		log.Printf("prices (%d mints): %v", len(mints), err)
		metrics.Upstream.WithLabelValues("dexscreener").Inc()
		writeError(w, &APIError{Status: http.StatusInternalServerError, Code: "PRICE_FETCH", Message: "Failed to fetch token prices"})
		return
	}
	if got == nil {
		got = map[string]float64{}
	}
	writeJSON(w, http.StatusOK, protocol.PriceResponse{Prices: got})
}

// HandleLeaderboard handles GET /api/leaderboard
func (s *Server) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusOK, protocol.Leaderboard{
			Items:       []protocol.LeaderboardEntry{},
			GeneratedAt: s.clock().UnixMilli(),
			Error:       "Leaderboard not configured",
		})
		return
	}
	ctx, cancel := s.ctx(r)
	defer cancel()
	lb, err := s.board(ctx)
	if err != nil {
		log.Printf("leaderboard: %v", err)
		writeError(w, &APIError{Status: http.StatusInternalServerError, Code: "LEADERBOARD", Message: "Failed to fetch leaderboard"})
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (s *Server) board(ctx context.Context) (protocol.Leaderboard, error) {
	if s.Board != nil {
		return s.Board.Board(ctx)
	}
	items, err := s.Store.Top(ctx, protocol.LeaderboardLimit)
	if err != nil {
		return protocol.Leaderboard{}, err
	}
	if items == nil {
		items = []protocol.LeaderboardEntry{}
	}
	return protocol.Leaderboard{Items: items, GeneratedAt: s.clock().UnixMilli()}, nil
}

type submitBody struct {
	WalletAddress string   `json:"wallet_address"`
	Score         *float64 `json:"score"`
	SnakeCount    int      `json:"snake_count"`
	TopSnake      string   `json:"top_snake"`
}

// HandleSubmit handles POST /api/leaderboard. Guests may only submit for the
// wallet their session is bound to.
func (s *Server) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, &APIError{Status: http.StatusServiceUnavailable, Code: "NOT_CONFIGURED", Message: "Leaderboard not configured"})
		return
	}
	var body submitBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
		writeError(w, badRequest("invalid json"))
		return
	}
	if strings.TrimSpace(body.WalletAddress) == "" || body.Score == nil || math.IsNaN(*body.Score) || math.IsInf(*body.Score, 0) {
		writeError(w, badRequest("Missing required fields"))
		return
	}

	claims, _ := auth.ClaimsFrom(r.Context())
	player := ""
	switch claims.Kind {
	case auth.KindGuest:
		if claims.Wallet != strings.TrimSpace(body.WalletAddress) {
			writeError(w, &APIError{Status: http.StatusForbidden, Code: "WALLET_MISMATCH", Message: "session is bound to another wallet"})
			return
		}
	case auth.KindUser:
		player = claims.Subject
	}

	entry, err := leaderboard.NewEntry(protocol.ScoreSubmission{
		WalletAddress: body.WalletAddress,
		Score:         int64(math.Floor(*body.Score)),
		SnakeCount:    body.SnakeCount,
		TopSnake:      body.TopSnake,
	}, player, s.clock())
	if err != nil {
		writeError(w, badRequest(strings.TrimPrefix(err.Error(), leaderboard.ErrInvalidSubmission.Error()+": ")))
		return
	}

	ctx, cancel := s.ctx(r)
	defer cancel()
	if err := s.Store.Add(ctx, entry); err != nil {
		log.Printf("submit score: %v", err)
		writeError(w, &APIError{Status: http.StatusInternalServerError, Code: "SUBMIT", Message: "Failed to submit score"})
		return
	}
	kind := "guest"
	if player != "" {
		kind = "user"
	}
	metrics.Scores.WithLabelValues(kind).Inc()
	log.Printf("SCORE wallet=%s player=%s score=%d snakes=%d top=%s", entry.WalletShort, player, entry.Score, entry.SnakeCount, entry.TopSnake)
	if s.Board != nil {
		s.Board.Notify()
	}
	writeJSON(w, http.StatusOK, protocol.SubmitResult{Entry: entry})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var ae *APIError
	if !errors.As(err, &ae) {
		ae = &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: "Internal server error"}
	}
	writeJSON(w, ae.Status, map[string]string{"error": ae.Message, "code": ae.Code})
}
