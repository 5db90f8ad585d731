package cache

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	CodecMsgpack = "msgpack"
	CodecJSON    = "json"
)

// Codec turns snapshots into bytes for the Store and back.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type msgpackCodec struct{}

// MsgpackCodec encodes snapshots with msgpack, honouring `msgpack` struct tags.
func MsgpackCodec() Codec { return msgpackCodec{} }

func (msgpackCodec) Name() string                       { return CodecMsgpack }
func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

type jsonCodec struct{}

// JSONCodec encodes snapshots as JSON. Values are readable with redis-cli.
func JSONCodec() Codec { return jsonCodec{} }

func (jsonCodec) Name() string                       { return CodecJSON }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// CodecByName resolves a configured codec name. The empty name selects msgpack.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", CodecMsgpack:
		return MsgpackCodec(), nil
	case CodecJSON:
		return JSONCodec(), nil
	default:
		return nil, fmt.Errorf("unknown cache codec %q", name)
	}
}
