package protocol

import "github.com/shopspring/decimal"

// Token is one fungible holding of a wallet.
type Token struct {
	Mint     string          `json:"mint"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Decimals int             `json:"decimals"`
	Image    string          `json:"image,omitempty"`
}

type WalletResponse struct {
	Tokens []Token `json:"tokens"`
	Error  string  `json:"error,omitempty"`
}

// PriceResponse maps mint -> USD price. Missing mints have no price.
type PriceResponse struct {
	Prices map[string]float64 `json:"prices"`
	Error  string             `json:"error,omitempty"`
}
