package protocol

import "testing"

func TestEncodeDecodeLeaderboard(t *testing.T) {
	board := Leaderboard{
		Items: []LeaderboardEntry{
			{ID: "a", WalletShort: "AbCd...WxYz", Score: 420, SnakeCount: 3, TopSnake: "BONK"},
		},
		GeneratedAt: 1700000000000,
	}
	for _, enc := range []Encoding{EncodingJSON, EncodingMsgpack} {
		b, err := Encode(enc, MsgLeaderboard, board)
		if err != nil {
			t.Fatalf("%s: encode: %v", enc, err)
		}
		env, err := Decode(enc, b)
		if err != nil {
			t.Fatalf("%s: decode envelope: %v", enc, err)
		}
		if env.Type != MsgLeaderboard {
			t.Fatalf("%s: type = %q, want %q", enc, env.Type, MsgLeaderboard)
		}
		got, err := DecodeData[Leaderboard](enc, env)
		if err != nil {
			t.Fatalf("%s: decode data: %v", enc, err)
		}
		if len(got.Items) != 1 || got.Items[0].Score != 420 || got.Items[0].TopSnake != "BONK" {
			t.Fatalf("%s: got %+v", enc, got)
		}
	}
}

func TestEncodeRejectsEmptyType(t *testing.T) {
	if _, err := Encode(EncodingJSON, "", struct{}{}); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if _, err := Decode(EncodingJSON, nil); err == nil {
		t.Fatalf("expected error for empty frame")
	}
}

func TestParseEncoding(t *testing.T) {
	if ParseEncoding("msgpack") != EncodingMsgpack {
		t.Fatalf("msgpack not recognised")
	}
	if ParseEncoding("") != EncodingJSON || ParseEncoding("xml") != EncodingJSON {
		t.Fatalf("unknown encodings must fall back to json")
	}
}
