package protocol

import "encoding/json"

// Envelope
type MsgEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Message types on /ws
const (
	MsgLeaderboard    = "Leaderboard"
	MsgGetLeaderboard = "GetLeaderboard"
	MsgError          = "Error"
)

type ErrorMsg struct {
	Message string `json:"message"`
}

// ================= auth =================

// SessionReq asks for a guest token bound to a wallet.
type SessionReq struct {
	WalletAddress string `json:"wallet_address"`
}

type RegisterReq struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}
type RegisterResp struct {
	OK bool `json:"ok"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Version  string `json:"version,omitempty"`
}

// TokenResp is returned by /api/login and /api/session.
type TokenResp struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
}
