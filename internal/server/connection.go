package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/handbits/poker"
)

const (
	defaultWriteWait = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMessageSize   = 4096
	sendBuffer       = 16
)

// Connection is one websocket client
type Connection struct {
	id     string
	conn   *websocket.Conn
	send   chan *Message
	logger *log.Logger
	clock  quartz.Clock
	dealer Dealer

	writeWait time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Dealer supplies random hands for deal requests
type Dealer interface {
	DealHand() []poker.Card
}

// NewConnection wraps an upgraded websocket
func NewConnection(id string, conn *websocket.Conn, logger *log.Logger, clock quartz.Clock, dealer Dealer, writeWait time.Duration) *Connection {
	if writeWait <= 0 {
		writeWait = defaultWriteWait
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *Message, sendBuffer),
		logger: logger.With("conn", id),
		clock:  clock,
		dealer: dealer,
		ctx:    ctx,
		cancel: cancel,

		writeWait: writeWait,
	}
}

// ID returns the connection's identifier
func (c *Connection) ID() string {
	return c.id
}

// Start runs the read and write pumps
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close shuts the connection down
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		return errors.New("send buffer full")
	}
}

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.sendError("", ErrCodeInvalidMessage, "Failed to parse message")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(pingPeriod, "server", "ping")
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

	switch msg.Type {
	case MessageTypeClassify:
		var data ClassifyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, ErrCodeInvalidMessage, "Failed to parse classify data")
			return
		}
		c.handleClassify(msg.RequestID, data)

	case MessageTypeDeal:
		var data DealData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError(msg.RequestID, ErrCodeInvalidMessage, "Failed to parse deal data")
				return
			}
		}
		c.handleDeal(msg.RequestID, data)

	default:
		c.sendError(msg.RequestID, ErrCodeUnknownType, "Unknown message type: "+string(msg.Type))
	}
}

func (c *Connection) handleClassify(requestID string, data ClassifyData) {
	hand, err := poker.ParseCards(data.Cards)
	if err != nil {
		c.sendError(requestID, errorCode(err), err.Error())
		return
	}
	c.classifyAndSend(requestID, hand, data.Trace)
}

func (c *Connection) handleDeal(requestID string, data DealData) {
	c.classifyAndSend(requestID, c.dealer.DealHand(), data.Trace)
}

func (c *Connection) classifyAndSend(requestID string, hand []poker.Card, withTrace bool) {
	result, err := poker.Classify(hand)
	if err != nil {
		c.sendError(requestID, errorCode(err), err.Error())
		return
	}

	msg, err := NewMessage(MessageTypeResult, NewResultData(hand, result, withTrace), c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to encode result", "error", err)
		return
	}
	msg.RequestID = requestID
	if err := c.SendMessage(msg); err != nil {
		c.logger.Warn("Failed to queue result", "error", err)
	}
}

func (c *Connection) sendError(requestID, code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message}, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to encode error", "error", err)
		return
	}
	msg.RequestID = requestID
	if err := c.SendMessage(msg); err != nil {
		c.logger.Warn("Failed to queue error", "error", err)
	}
}
