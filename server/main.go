package main

import (
	"context"
	"errors"
	"expvar"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/michaelpaglia/fun-sunday-work/server/api"
	"github.com/michaelpaglia/fun-sunday-work/server/auth"
	"github.com/michaelpaglia/fun-sunday-work/server/leaderboard"
	"github.com/michaelpaglia/fun-sunday-work/server/prices"
	"github.com/michaelpaglia/fun-sunday-work/server/srv"
	"github.com/michaelpaglia/fun-sunday-work/server/wallet"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsHandler subscribes a client to live leaderboard updates. ?enc=msgpack
// selects binary frames; a valid ?token= names the client in logs.
func wsHandler(h *srv.Hub, a *auth.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := "guest"
		if c, err := a.ParseToken(auth.TokenFromRequest(r)); err == nil {
			name = c.Subject
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		h.HandleWS(conn, protocol.ParseEncoding(r.URL.Query().Get("enc")), name)
	}
}

func openStore(ctx context.Context, dsn string) leaderboard.Store {
	if dsn == "" || dsn == "off" {
		log.Println("leaderboard: disabled")
		return nil
	}
	st, err := leaderboard.Open(ctx, dsn)
	if err != nil {
		log.Printf("leaderboard: %v (scores will not be saved)", err)
		return nil
	}
	return st
}

func main() {
	cfg := loadConfig()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("data dir: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := auth.NewAuth(cfg.DataDir)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	store := openStore(ctx, cfg.Leaderboard)
	if store != nil {
		defer store.Close()
	}
	hub := srv.NewHub(store)

	wallets := wallet.NewClient(cfg.HeliusKey)
	if cfg.HeliusURL != "" {
		wallets.URL = cfg.HeliusURL
	}
	if cfg.HeliusKey == "" {
		log.Println("HELIUS_API_KEY not set; wallet lookups will fail")
	}
	quotes := prices.NewClient(cfg.PriceFallback)
	if cfg.DexScreener != "" {
		quotes.BaseURL = cfg.DexScreener
	}

	apiSrv := &api.Server{
		Wallets: wallets,
		Prices:  quotes,
		Store:   store,
		Board:   hub,
		Timeout: cfg.Timeout,
	}

	mux := http.NewServeMux()
	apiSrv.Routes(mux, a)
	mux.HandleFunc("/ws", wsHandler(hub, a))
	mux.Handle("GET /debug/vars", expvar.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })

	s := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := hub.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Println("server listening on", cfg.Addr)
		if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	log.Println("server stopped")
}
