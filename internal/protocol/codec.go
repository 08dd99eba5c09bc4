package protocol

import (
	"encoding/json"
	"fmt"
)

// NewMessage builds a message with a JSON-encoded payload.
func NewMessage(msgType MessageType, payload any) (*Message, error) {
	msg := &Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage is NewMessage for payloads that cannot fail to encode.
func MustNewMessage(msgType MessageType, payload any) *Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// NewErrorMessage builds an error message with a code and text.
func NewErrorMessage(code int, text string) *Message {
	return MustNewMessage(MsgError, ErrorPayload{Code: code, Message: text})
}

// Decode parses a raw websocket frame into a Message.
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &msg, nil
}

// DecodePayload parses a message payload into the given struct.
func DecodePayload(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("message %s has no payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", msg.Type, err)
	}
	return nil
}
