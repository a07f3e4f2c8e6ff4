// Package wallet looks up the fungible holdings of a Solana wallet through
// the Helius DAS getAssetsByOwner RPC.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/michaelpaglia/fun-sunday-work/shared/feed"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

const (
	DefaultRPCURL = "https://mainnet.helius-rpc.com/"
	pageLimit     = 50
	solLogo       = "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/So11111111111111111111111111111111111111112/logo.png"
)

type Client struct {
	URL    string // full RPC url including api-key
	APIKey string
	HTTP   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		URL:    DefaultRPCURL,
		APIKey: apiKey,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	OwnerAddress   string         `json:"ownerAddress"`
	Page           int            `json:"page"`
	Limit          int            `json:"limit"`
	DisplayOptions displayOptions `json:"displayOptions"`
}

type displayOptions struct {
	ShowFungible      bool `json:"showFungible"`
	ShowNativeBalance bool `json:"showNativeBalance"`
}

type rpcResponse struct {
	Result *assetsResult `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type assetsResult struct {
	Items         []asset `json:"items"`
	NativeBalance *struct {
		Lamports decimal.Decimal `json:"lamports"`
	} `json:"nativeBalance"`
}

type asset struct {
	ID      string `json:"id"`
	Content *struct {
		Metadata struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"metadata"`
		Links struct {
			Image string `json:"image"`
		} `json:"links"`
	} `json:"content"`
	TokenInfo *struct {
		Balance  decimal.Decimal `json:"balance"`
		Decimals int             `json:"decimals"`
	} `json:"token_info"`
}

// Tokens lists the wallet's native SOL (first, when non-zero) followed by
// every fungible asset with a positive balance. Failures wrap feed.ErrWalletFetch.
func (c *Client) Tokens(ctx context.Context, address string) ([]protocol.Token, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "1",
		Method:  "getAssetsByOwner",
		Params: rpcParams{
			OwnerAddress:   address,
			Page:           1,
			Limit:          pageLimit,
			DisplayOptions: displayOptions{ShowFungible: true, ShowNativeBalance: true},
		},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", feed.ErrWalletFetch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", feed.ErrWalletFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: helius status %d: %s", feed.ErrWalletFetch, resp.StatusCode, bytes.TrimSpace(b))
	}
	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", feed.ErrWalletFetch, err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%w: rpc %d: %s", feed.ErrWalletFetch, out.Error.Code, out.Error.Message)
	}
	return convert(out.Result), nil
}

func (c *Client) endpoint() string {
	if c.APIKey == "" {
		return c.URL
	}
	return c.URL + "?api-key=" + c.APIKey
}

func convert(r *assetsResult) []protocol.Token {
	if r == nil {
		return nil
	}
	var tokens []protocol.Token
	if r.NativeBalance != nil && r.NativeBalance.Lamports.IsPositive() {
		tokens = append(tokens, protocol.Token{
			Mint:     protocol.SOLMint,
			Symbol:   "SOL",
			Name:     "Solana",
			Balance:  r.NativeBalance.Lamports.Shift(-9),
			Decimals: 9,
			Image:    solLogo,
		})
	}
	for _, a := range r.Items {
		if a.TokenInfo == nil || !a.TokenInfo.Balance.IsPositive() {
			continue
		}
		t := protocol.Token{
			Mint:     a.ID,
			Symbol:   "UNKNOWN",
			Name:     "Unknown Token",
			Balance:  a.TokenInfo.Balance.Shift(-int32(a.TokenInfo.Decimals)),
			Decimals: a.TokenInfo.Decimals,
		}
		if a.Content != nil {
			if s := a.Content.Metadata.Symbol; s != "" {
				t.Symbol = s
			}
			if n := a.Content.Metadata.Name; n != "" {
				t.Name = n
			}
			t.Image = a.Content.Links.Image
		}
		tokens = append(tokens, t)
	}
	return tokens
}
