package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lox/handbits/internal/trace"
	"github.com/lox/handbits/poker"
)

// MessageType identifies a websocket message
type MessageType string

const (
	// Client → Server
	MessageTypeClassify MessageType = "classify"
	MessageTypeDeal     MessageType = "deal"

	// Server → Client
	MessageTypeResult MessageType = "result"
	MessageTypeError  MessageType = "error"
)

// Error codes sent in ErrorData.Code
const (
	ErrCodeInvalidMessage  = "invalid_message"
	ErrCodeUnknownType     = "unknown_type"
	ErrCodeInvalidCards    = "invalid_cards"
	ErrCodeInvalidHandSize = "invalid_hand_size"
	ErrCodeInvalidRank     = "invalid_rank"
	ErrCodeInvalidSuit     = "invalid_suit"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message stamped with the given time
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// ClassifyData asks for one hand to be classified. Cards use the "AsKd"
// notation; Trace requests the step-by-step explanation.
type ClassifyData struct {
	Cards string `json:"cards"`
	Trace bool   `json:"trace,omitempty"`
}

// DealData asks the server to shuffle, deal five cards and classify them.
type DealData struct {
	Trace bool `json:"trace,omitempty"`
}

// ResultData is the classification of one hand. V can exceed 2^53 so it
// travels as a string.
type ResultData struct {
	Cards            []string     `json:"cards"`
	Category         string       `json:"category"`
	Index            int          `json:"index"`
	IsAceLowStraight bool         `json:"isAceLowStraight"`
	S                uint32       `json:"s"`
	V                uint64       `json:"v,string"`
	Normalized       uint32       `json:"sNormalized"`
	Mod              uint64       `json:"mod"`
	Trace            []trace.Step `json:"trace,omitempty"`
}

// ErrorData describes a rejected request
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewResultData converts a classification into its wire form
func NewResultData(hand []poker.Card, result poker.Result, withTrace bool) ResultData {
	cards := make([]string, len(hand))
	for i, c := range hand {
		cards[i] = c.Notation()
	}
	data := ResultData{
		Cards:            cards,
		Category:         result.Name(),
		Index:            result.Index,
		IsAceLowStraight: result.IsAceLowStraight,
		S:                result.S,
		V:                result.V,
		Normalized:       result.Normalized,
		Mod:              result.Mod,
	}
	if withTrace {
		data.Trace = trace.New(hand, result).Steps
	}
	return data
}

// errorCode maps classifier errors to wire codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, poker.ErrInvalidHandSize):
		return ErrCodeInvalidHandSize
	case errors.Is(err, poker.ErrInvalidRank):
		return ErrCodeInvalidRank
	case errors.Is(err, poker.ErrInvalidSuit):
		return ErrCodeInvalidSuit
	default:
		return ErrCodeInvalidCards
	}
}
