package api

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]`)

func sanitize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeChars.ReplaceAllString(s, "")
	if s == "" {
		s = "default"
	}
	return s
}

// profileID picks a per-binary profile:
// 1) SNAKES_PROFILE env (e.g., "dev")
// 2) <exeBase>-<hash8 of full exe path>
func profileID() string {
	if p := strings.TrimSpace(os.Getenv("SNAKES_PROFILE")); p != "" {
		return sanitize(p)
	}
	exe, _ := os.Executable()
	base := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	sum := sha1.Sum([]byte(exe))
	return sanitize(base) + "-" + hex.EncodeToString(sum[:])[:8]
}

// ConfigDir = OS config dir / WalletSnakes / profileID()
//
//	Windows: %APPDATA%\WalletSnakes\<profile>\
//	macOS:   ~/Library/Application Support/WalletSnakes/<profile>/
//	Linux:   ~/.config/WalletSnakes/<profile>/
func ConfigDir() string {
	root, _ := os.UserConfigDir()
	if root == "" {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, ".config")
	}
	dir := filepath.Join(root, "WalletSnakes", profileID())
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

func ConfigPath(name string) string {
	return filepath.Join(ConfigDir(), name)
}

// Prefs is what the client remembers between runs.
type Prefs struct {
	Dir string // empty means ConfigDir()
}

func (p Prefs) path(name string) string {
	if p.Dir != "" {
		_ = os.MkdirAll(p.Dir, 0o755)
		return filepath.Join(p.Dir, name)
	}
	return ConfigPath(name)
}

func (p Prefs) SaveToken(tok string) error {
	return os.WriteFile(p.path("token.txt"), []byte(strings.TrimSpace(tok)), 0o600)
}

func (p Prefs) LoadToken() string {
	b, _ := os.ReadFile(p.path("token.txt"))
	return strings.TrimSpace(string(b))
}

// ClearToken forgets the saved account, username included.
func (p Prefs) ClearToken() {
	_ = os.Remove(p.path("token.txt"))
	_ = os.Remove(p.path("username.txt"))
}

func (p Prefs) SaveUsername(name string) error {
	return os.WriteFile(p.path("username.txt"), []byte(strings.TrimSpace(name)), 0o600)
}

func (p Prefs) LoadUsername() string {
	b, _ := os.ReadFile(p.path("username.txt"))
	return strings.TrimSpace(string(b))
}

// SaveWallet remembers the last wallet so the entry screen can prefill it.
func (p Prefs) SaveWallet(addr string) error {
	return os.WriteFile(p.path("wallet.txt"), []byte(strings.TrimSpace(addr)), 0o600)
}

func (p Prefs) LoadWallet() string {
	b, _ := os.ReadFile(p.path("wallet.txt"))
	return strings.TrimSpace(string(b))
}
