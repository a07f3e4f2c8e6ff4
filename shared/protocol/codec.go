package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the frame format on /ws.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

func ParseEncoding(s string) Encoding {
	if s == string(EncodingMsgpack) {
		return EncodingMsgpack
	}
	return EncodingJSON
}

// binaryEnvelope mirrors MsgEnvelope for msgpack frames.
type binaryEnvelope struct {
	Type string             `msgpack:"type"`
	Data msgpack.RawMessage `msgpack:"data"`
}

func marshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalMsgpack(b []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// Encode wraps v in an envelope of type typ.
func Encode(enc Encoding, typ string, v any) ([]byte, error) {
	if typ == "" {
		return nil, fmt.Errorf("encode: empty envelope type")
	}
	if enc == EncodingMsgpack {
		data, err := marshalMsgpack(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", typ, err)
		}
		return marshalMsgpack(binaryEnvelope{Type: typ, Data: data})
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return json.Marshal(MsgEnvelope{Type: typ, Data: data})
}

// Decode reads the envelope; Data stays in the frame's encoding.
func Decode(enc Encoding, b []byte) (MsgEnvelope, error) {
	if len(b) == 0 {
		return MsgEnvelope{}, fmt.Errorf("decode: empty frame")
	}
	if enc == EncodingMsgpack {
		var be binaryEnvelope
		if err := unmarshalMsgpack(b, &be); err != nil {
			return MsgEnvelope{}, err
		}
		return MsgEnvelope{Type: be.Type, Data: json.RawMessage(be.Data)}, nil
	}
	var env MsgEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return MsgEnvelope{}, err
	}
	return env, nil
}

func DecodeData[T any](enc Encoding, env MsgEnvelope) (T, error) {
	var out T
	if len(env.Data) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.Type)
	}
	if enc == EncodingMsgpack {
		return out, unmarshalMsgpack(env.Data, &out)
	}
	return out, json.Unmarshal(env.Data, &out)
}
