package protocol

import (
	"regexp"
	"strings"
)

// Solana addresses are base58 encoded and 32-44 characters long.
var base58Address = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

func ValidWalletAddress(addr string) bool {
	return base58Address.MatchString(addr)
}

// ShortAddress renders "AbCd...WxYz".
func ShortAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if len(addr) <= 8 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}
