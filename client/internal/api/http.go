// Package api is the client side of the game server: REST calls for wallets,
// prices and scores, and the live leaderboard websocket.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/michaelpaglia/fun-sunday-work/shared/feed"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

// HTTPError is a non-2xx answer. Message is the server's "error" field when
// it sent one.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

type Client struct {
	Base string
	HTTP *http.Client

	mu    sync.Mutex
	token string
}

func New(base string) *Client {
	return &Client{
		Base: strings.TrimRight(base, "/"),
		HTTP: &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(tok)
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// GetJSON performs a GET request and decodes the JSON response
func GetJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var result T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return result, err
	}
	return result, c.do(req, &result)
}

// PostJSON performs a POST request with JSON body and decodes the JSON response
func PostJSON[Req any, Res any](ctx context.Context, c *Client, path string, body Req) (Res, error) {
	var result Res
	b, err := json.Marshal(body)
	if err != nil {
		return result, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, bytes.NewReader(b))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")
	return result, c.do(req, &result)
}

func (c *Client) do(req *http.Request, out any) error {
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		he := &HTTPError{Status: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			he.Message = eb.Error
		} else {
			he.Message = strings.TrimSpace(string(body))
		}
		return he
	}
	return json.Unmarshal(body, out)
}

// Tokens fetches a wallet's holdings through the server.
func (c *Client) Tokens(ctx context.Context, address string) ([]protocol.Token, error) {
	resp, err := GetJSON[protocol.WalletResponse](ctx, c, "/api/wallet?address="+url.QueryEscape(address))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", feed.ErrWalletFetch, err)
	}
	return resp.Tokens, nil
}

// Prices quotes mints through the server.
func (c *Client) Prices(ctx context.Context, mints []string) (map[string]float64, error) {
	if len(mints) == 0 {
		return map[string]float64{}, nil
	}
	resp, err := GetJSON[protocol.PriceResponse](ctx, c, "/api/prices?mints="+url.QueryEscape(strings.Join(mints, ",")))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", feed.ErrPriceFetch, err)
	}
	return resp.Prices, nil
}

// StartSession gets a guest token for wallet and keeps it for later calls.
func (c *Client) StartSession(ctx context.Context, wallet string) (string, error) {
	resp, err := PostJSON[protocol.SessionReq, protocol.TokenResp](ctx, c, "/api/session", protocol.SessionReq{WalletAddress: wallet})
	if err != nil {
		return "", err
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	_, err := PostJSON[protocol.RegisterReq, protocol.RegisterResp](ctx, c, "/api/register",
		protocol.RegisterReq{Username: username, Password: password, PasswordConfirm: password})
	return err
}

// Login signs in a named account and keeps its token.
func (c *Client) Login(ctx context.Context, username, password string) (protocol.TokenResp, error) {
	resp, err := PostJSON[protocol.LoginReq, protocol.TokenResp](ctx, c, "/api/login",
		protocol.LoginReq{Username: username, Password: password, Version: protocol.GameVersion})
	if err != nil {
		var he *HTTPError
		if errors.As(err, &he) && he.Status == http.StatusUnauthorized {
			return resp, errors.New("invalid credentials")
		}
		return resp, err
	}
	c.SetToken(resp.Token)
	return resp, nil
}

func (c *Client) Submit(ctx context.Context, sub protocol.ScoreSubmission) (protocol.LeaderboardEntry, error) {
	resp, err := PostJSON[protocol.ScoreSubmission, protocol.SubmitResult](ctx, c, "/api/leaderboard", sub)
	return resp.Entry, err
}

func (c *Client) Leaderboard(ctx context.Context) (protocol.Leaderboard, error) {
	return GetJSON[protocol.Leaderboard](ctx, c, "/api/leaderboard")
}
