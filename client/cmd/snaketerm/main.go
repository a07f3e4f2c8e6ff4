// Command snaketerm plays Solana Snake in a terminal.
//
//	snaketerm -wallet <address>   play a real wallet through the server
//	snaketerm -demo               offline, with made-up tokens and drifting prices
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/api"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/netcfg"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/play"
	"github.com/michaelpaglia/fun-sunday-work/client/internal/term"
	"github.com/michaelpaglia/fun-sunday-work/shared/feed"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

var demoTokens = []sim.Token{
	{Mint: protocol.SOLMint, Symbol: "SOL", Name: "Solana", Price: 140},
	{Mint: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Symbol: "BONK", Name: "Bonk", Price: 0.00002},
	{Mint: "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", Symbol: "JUP", Name: "Jupiter", Price: 0.9},
	{Mint: "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm", Symbol: "WIF", Name: "dogwifhat", Price: 2.1},
	{Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Name: "USD Coin", Price: 1},
}

func main() {
	wallet := flag.String("wallet", "", "Solana wallet address to play")
	demo := flag.Bool("demo", false, "play offline with synthetic tokens")
	mute := flag.Bool("mute", false, "no sound")
	seed := flag.Int64("seed", 0, "random seed (0 = time based)")
	logPath := flag.String("log", api.ConfigPath("snaketerm.log"), "log file; the terminal is busy")
	flag.Parse()

	if f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	if err := run(*wallet, *demo, *mute, *seed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(wallet string, demo, mute bool, seed int64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := sim.NewTimeRand()
	if seed != 0 {
		rng = sim.NewRand(seed)
	}
	interval := time.Duration(protocol.PriceRefreshMs) * time.Millisecond
	client := api.New(netcfg.APIBase)

	var (
		tokens []sim.Token
		prices feed.PriceSource
	)
	if demo {
		start := make(map[string]float64, len(demoTokens))
		for _, t := range demoTokens {
			start[t.Mint] = t.Price
		}
		tokens = demoTokens
		// the walk keeps its own source; the session's rng is not safe to share
		prices = feed.NewWalk(sim.NewRand(seed+1), 5, start)
		wallet = ""
	} else {
		if !protocol.ValidWalletAddress(wallet) {
			return fmt.Errorf("a valid -wallet address is required (or use -demo)")
		}
		fmt.Println("LOADING...")
		lctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		var err error
		tokens, err = play.Load(lctx, client, client, wallet)
		cancel()
		if err != nil {
			log.Printf("LOAD: %v", err)
			return fmt.Errorf("GAME OVER: %s", play.ErrorText(err))
		}
		prices = client
	}

	match := play.NewMatch(sim.DefaultConfig(), rng, tokens, wallet, prices, interval)
	defer match.Stop()

	scr, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := scr.Init(); err != nil {
		return err
	}
	defer scr.Fini()

	var sound term.Sounder = term.Silent()
	if !mute {
		if b, err := term.NewBeeper(); err == nil {
			sound = b
		} else {
			// game runs fine without sound
			log.Printf("audio init failed: %v", err)
		}
	}
	defer sound.Close()

	v := &term.View{Screen: scr, Match: match, Sound: sound}
	if !demo {
		v.Submit = func(ctx context.Context, sub protocol.ScoreSubmission) error {
			_, err := client.Submit(ctx, sub)
			return err
		}
		v.Board = client.Leaderboard
	}
	err = v.Run(ctx)
	log.Printf("TERM: final score %d", match.Session().Score())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
