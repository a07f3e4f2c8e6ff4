// server/auth/auth.go
package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

const (
	KindUser  = "user"
	KindGuest = "guest"

	tokenTTL    = 24 * time.Hour
	minPassword = 6
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type userStore struct {
	mu    sync.RWMutex
	path  string
	users map[string]*User
}

func newUserStore(path string) (*userStore, error) {
	us := &userStore{path: path, users: map[string]*User{}}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if b, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(b, &us.users); err != nil {
			return nil, err
		}
	}
	return us, nil
}

func (s *userStore) save() error {
	// Read under RLock, then write file without holding the lock
	s.mu.RLock()
	b, err := json.MarshalIndent(s.users, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *userStore) get(username string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(username)]
	return u, ok
}

// add stores u unless the name is taken.
func (s *userStore) add(u *User) (bool, error) {
	s.mu.Lock()
	key := strings.ToLower(u.Username)
	if _, ok := s.users[key]; ok {
		s.mu.Unlock()
		return false, nil
	}
	s.users[key] = u
	s.mu.Unlock()
	return true, s.save()
}

// Claims is who a request speaks for. Guests are bound to a wallet; named
// users may submit for any wallet they load.
type Claims struct {
	Subject string
	Kind    string
	Wallet  string
}

type Auth struct {
	users  *userStore
	jwtKey []byte
	issuer string
	now    func() time.Time
}

// NewAuth loads users and the signing key from dataDir. A missing or short
// key is replaced by a fresh random one.
func NewAuth(dataDir string) (*Auth, error) {
	users, err := newUserStore(filepath.Join(dataDir, "users.json"))
	if err != nil {
		return nil, err
	}
	keyPath := filepath.Join(dataDir, "jwt.key")
	key, err := os.ReadFile(keyPath)
	if err != nil || len(key) < 32 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		if err := os.WriteFile(keyPath, key, 0o600); err != nil {
			return nil, err
		}
	}
	return &Auth{users: users, jwtKey: key, issuer: "WalletSnakes", now: time.Now}, nil
}

func (a *Auth) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req protocol.RegisterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < minPassword || req.Password != req.PasswordConfirm {
		http.Error(w, "invalid username or password mismatch / too short", http.StatusBadRequest)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "hash failed", http.StatusInternalServerError)
		return
	}
	u := &User{Username: req.Username, PasswordHash: string(hash), CreatedAt: a.now()}
	added, err := a.users.add(u)
	if err != nil {
		log.Printf("register %s: save: %v", req.Username, err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	if !added {
		http.Error(w, "username already exists", http.StatusConflict)
		return
	}
	log.Printf("REGISTER user=%s", u.Username)
	writeJSON(w, protocol.RegisterResp{OK: true})
}

func (a *Auth) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req protocol.LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	u, ok := a.users.get(strings.TrimSpace(req.Username))
	if !ok || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	signed, err := a.sign(jwt.MapClaims{"sub": u.Username, "kind": KindUser})
	if err != nil {
		http.Error(w, "sign failed", http.StatusInternalServerError)
		return
	}
	log.Printf("LOGIN user=%s version=%s", u.Username, req.Version)
	writeJSON(w, protocol.TokenResp{Token: signed, Username: u.Username})
}

// HandleSession issues a guest token for a wallet address.
func (a *Auth) HandleSession(w http.ResponseWriter, r *http.Request) {
	var req protocol.SessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	addr := strings.TrimSpace(req.WalletAddress)
	if !protocol.ValidWalletAddress(addr) {
		http.Error(w, "invalid wallet address", http.StatusBadRequest)
		return
	}
	signed, err := a.sign(jwt.MapClaims{"sub": addr, "kind": KindGuest, "wallet": addr})
	if err != nil {
		http.Error(w, "sign failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, protocol.TokenResp{Token: signed})
}

func (a *Auth) sign(claims jwt.MapClaims) (string, error) {
	now := a.now()
	claims["iss"] = a.issuer
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(tokenTTL).Unix()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtKey)
}

func (a *Auth) ParseToken(tok string) (Claims, error) {
	if tok == "" {
		return Claims{}, ErrMissingToken
	}
	t, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return a.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(a.issuer))
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	var c Claims
	c.Subject, _ = mc["sub"].(string)
	c.Kind, _ = mc["kind"].(string)
	c.Wallet, _ = mc["wallet"].(string)
	if c.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	if c.Kind == "" {
		c.Kind = KindUser
	}
	return c, nil
}

type ctxKey struct{}

// ClaimsFrom returns the claims RequireAuth attached to ctx.
func ClaimsFrom(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(Claims)
	return c, ok
}

func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// RequireAuth rejects requests without a valid bearer (or ?token=) token.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := a.ParseToken(TokenFromRequest(r))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, c)))
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
