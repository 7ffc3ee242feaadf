package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handbits/internal/connid"
	"github.com/lox/handbits/internal/randutil"
	"github.com/lox/handbits/poker"
)

func startTestServer(t *testing.T) (*Server, *httptest.Server, *quartz.Mock) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	clock := quartz.NewMock(t)
	s := NewServer(logger, clock, randutil.New(42))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts, clock
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req map[string]any) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.WriteJSON(req))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func decodeResult(t *testing.T, msg Message) ResultData {
	t.Helper()
	require.Equal(t, MessageTypeResult, msg.Type, "payload: %s", msg.Data)
	var data ResultData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func decodeError(t *testing.T, msg Message) ErrorData {
	t.Helper()
	require.Equal(t, MessageTypeError, msg.Type, "payload: %s", msg.Data)
	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func TestHealth(t *testing.T) {
	_, ts, _ := startTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestClassifyOverWebSocket(t *testing.T) {
	_, ts, clock := startTestServer(t)
	conn := dial(t, ts)

	msg := roundTrip(t, conn, map[string]any{
		"type":      "classify",
		"requestId": "r1",
		"data":      map[string]any{"cards": "As 2c 3h 4d 5s"},
	})
	assert.Equal(t, "r1", msg.RequestID)
	assert.True(t, msg.Timestamp.Equal(clock.Now()))

	result := decodeResult(t, msg)
	assert.Equal(t, "Straight", result.Category)
	assert.Equal(t, 2, result.Index)
	assert.True(t, result.IsAceLowStraight)
	assert.Equal(t, uint32(0x403C), result.S)
	assert.Equal(t, []string{"As", "2c", "3h", "4d", "5s"}, result.Cards)
	assert.Empty(t, result.Trace)
}

func TestClassifyLargeAccumulatorSurvivesJSON(t *testing.T) {
	_, ts, _ := startTestServer(t)
	conn := dial(t, ts)

	hand := poker.MustParseCards("AsAcAhAdKs")
	want, err := poker.Classify(hand)
	require.NoError(t, err)

	msg := roundTrip(t, conn, map[string]any{
		"type": "classify",
		"data": map[string]any{"cards": "AsAcAhAdKs", "trace": true},
	})
	result := decodeResult(t, msg)
	assert.Equal(t, "4 of a Kind", result.Category)
	assert.Equal(t, want.V, result.V)
	assert.Greater(t, result.V, uint64(1)<<53)
	require.Len(t, result.Trace, 6)
	assert.Equal(t, "Initial hand", result.Trace[0].Title)
}

func TestDealOverWebSocket(t *testing.T) {
	_, ts, _ := startTestServer(t)
	conn := dial(t, ts)

	for i := 0; i < 20; i++ {
		result := decodeResult(t, roundTrip(t, conn, map[string]any{"type": "deal"}))
		require.Len(t, result.Cards, poker.HandSize)

		hand, err := poker.ParseCards(strings.Join(result.Cards, ""))
		require.NoError(t, err)
		seen := make(map[poker.Card]bool)
		for _, c := range hand {
			assert.False(t, seen[c], "duplicate card in deal")
			seen[c] = true
		}

		want, err := poker.Classify(hand)
		require.NoError(t, err)
		assert.Equal(t, want.Name(), result.Category)
	}
}

func TestErrorsOverWebSocket(t *testing.T) {
	_, ts, _ := startTestServer(t)
	conn := dial(t, ts)

	tests := []struct {
		name string
		req  map[string]any
		code string
	}{
		{"four cards", map[string]any{"type": "classify", "data": map[string]any{"cards": "AsKsQsJs"}}, ErrCodeInvalidHandSize},
		{"bad rank", map[string]any{"type": "classify", "data": map[string]any{"cards": "1sKsQsJsTs"}}, ErrCodeInvalidRank},
		{"bad suit", map[string]any{"type": "classify", "data": map[string]any{"cards": "AxKsQsJsTs"}}, ErrCodeInvalidSuit},
		{"odd length", map[string]any{"type": "classify", "data": map[string]any{"cards": "AsK"}}, ErrCodeInvalidCards},
		{"bad data", map[string]any{"type": "classify", "data": "nope"}, ErrCodeInvalidMessage},
		{"unknown type", map[string]any{"type": "showdown"}, ErrCodeUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := decodeError(t, roundTrip(t, conn, tt.req))
			assert.Equal(t, tt.code, data.Code)
			assert.NotEmpty(t, data.Message)
		})
	}

	// The connection survives malformed JSON
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ErrCodeInvalidMessage, decodeError(t, msg).Code)

	result := decodeResult(t, roundTrip(t, conn, map[string]any{"type": "classify", "data": map[string]any{"cards": "TsJsQsKsAs"}}))
	assert.Equal(t, "Royal Flush", result.Category)
}

func TestConnectionTracking(t *testing.T) {
	s, ts, clock := startTestServer(t)
	conn := dial(t, ts)

	// Round trip so the server has registered the client
	decodeResult(t, roundTrip(t, conn, map[string]any{"type": "deal"}))
	assert.Equal(t, 1, s.ConnectionCount())
	ids := s.ConnectionIDs()
	require.Len(t, ids, 1)
	require.NoError(t, connid.Validate(ids[0]))
	connected, err := connid.Time(ids[0])
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UnixMilli(), connected.UnixMilli())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return s.ConnectionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWithWriteTimeout(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	s := NewServer(logger, quartz.NewMock(t), randutil.New(1), WithWriteTimeout(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, s.writeTimeout)
}
