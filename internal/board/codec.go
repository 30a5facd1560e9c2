package board

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes board events for one websocket connection.
type Codec interface {
	Name() string
	// MessageType is the websocket frame type the codec produces.
	MessageType() int
	Encode(ev Event) ([]byte, error)
	Decode(data []byte) (Event, error)
}

// Codec names accepted in the codec query parameter.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// CodecByName returns the codec registered under name. An empty name
// selects JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecMsgpack:
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// JSONCodec is the text wire format: {"event":"drawing","payload":{...}}.
type JSONCodec struct{}

func (JSONCodec) Name() string     { return CodecJSON }
func (JSONCodec) MessageType() int { return websocket.TextMessage }

func (JSONCodec) Encode(ev Event) ([]byte, error) {
	return json.Marshal(ev.Envelope())
}

func (JSONCodec) Decode(data []byte) (Event, error) {
	if err := ValidateJSON(data); err != nil {
		return Event{}, err
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env.ToEvent()
}

// MsgpackCodec is the compact binary wire format.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string     { return CodecMsgpack }
func (MsgpackCodec) MessageType() int { return websocket.BinaryMessage }

func (MsgpackCodec) Encode(ev Event) ([]byte, error) {
	return msgpack.Marshal(ev.Envelope())
}

func (MsgpackCodec) Decode(data []byte) (Event, error) {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env.ToEvent()
}
