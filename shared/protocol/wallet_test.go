package protocol

import "testing"

func TestValidWalletAddress(t *testing.T) {
	cases := map[string]bool{
		"So11111111111111111111111111111111111111112":  true,
		"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM": true,
		"":                                         false,
		"short":                                    false,
		"0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl":     false, // excluded base58 chars
		"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWMx": false, // 45 chars
	}
	for addr, want := range cases {
		if got := ValidWalletAddress(addr); got != want {
			t.Errorf("ValidWalletAddress(%q) = %v, want %v", addr, got, want)
		}
	}
}

func TestShortAddress(t *testing.T) {
	if got := ShortAddress("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"); got != "9WzD...AWWM" {
		t.Fatalf("ShortAddress = %q", got)
	}
	if got := ShortAddress("abc"); got != "abc" {
		t.Fatalf("short input should pass through, got %q", got)
	}
}
