package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhtarshadab/bridge/engine"
	"github.com/akhtarshadab/bridge/internal/game"
)

var testSecret = []byte("server-test-secret")

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	s := New(log, testSecret, nil, nil, 0)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string) map[string]interface{} {
	t.Helper()
	resp, err := http.Post(url, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Less(t, resp.StatusCode, 300, "unexpected status %d: %s", resp.StatusCode, body)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

// seatAll creates a table, seats four players and returns the table id
// plus one token per seat.
func seatAll(t *testing.T, ts *httptest.Server) (string, map[string]string) {
	t.Helper()
	created := postJSON(t, ts.URL+"/tables")
	tableID, _ := created["tableId"].(string)
	require.NotEmpty(t, tableID)

	tokens := make(map[string]string)
	for _, seat := range []string{"N", "E", "S", "W"} {
		joined := postJSON(t, fmt.Sprintf("%s/tables/%s/join?seat=%s&username=player-%s", ts.URL, tableID, seat, seat))
		token, _ := joined["token"].(string)
		require.NotEmpty(t, token)
		tokens[seat] = token
	}
	return tableID, tokens
}

func TestJoinRejectsOccupiedSeat(t *testing.T) {
	_, ts := newTestServer(t)

	created := postJSON(t, ts.URL+"/tables")
	tableID := created["tableId"].(string)

	postJSON(t, fmt.Sprintf("%s/tables/%s/join?seat=N&username=alice", ts.URL, tableID))

	resp, err := http.Post(fmt.Sprintf("%s/tables/%s/join?seat=N&username=bob", ts.URL, tableID), "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestStartRequiresFullTable(t *testing.T) {
	_, ts := newTestServer(t)

	created := postJSON(t, ts.URL+"/tables")
	tableID := created["tableId"].(string)

	resp, err := http.Post(fmt.Sprintf("%s/tables/%s/start", ts.URL, tableID), "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestResultsWithoutStore(t *testing.T) {
	_, ts := newTestServer(t)

	created := postJSON(t, ts.URL+"/tables")
	tableID := created["tableId"].(string)

	resp, err := http.Get(fmt.Sprintf("%s/tables/%s/results", ts.URL, tableID))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestWebsocketRejectsBadToken(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ws?token=not-a-token")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebsocketSyncAndBroadcast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, ts := newTestServer(t)
	tableID, tokens := seatAll(t, ts)

	conn, _, err := websocket.Dial(ctx, ts.URL+"/ws?token="+tokens["N"], nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// A full snapshot arrives as soon as the socket is up.
	first := readEvent(ctx, t, conn)
	assert.Equal(t, game.EventSyncState, first.Type)
	require.NotNil(t, first.View)
	assert.Equal(t, "N", first.Seat)

	postJSON(t, fmt.Sprintf("%s/tables/%s/start", ts.URL, tableID))

	// The deal broadcast and the private hand both reach the seat.
	got := make(map[game.EventType]game.Event)
	for len(got) < 3 {
		ev := readEvent(ctx, t, conn)
		got[ev.Type] = ev
	}
	require.Contains(t, got, game.EventBoardDeal)
	require.Contains(t, got, game.EventPrivateHand)
	require.Contains(t, got, game.EventPlayerTurn)

	cards, ok := got[game.EventPrivateHand].Payload["cards"].([]interface{})
	require.True(t, ok)
	assert.Len(t, cards, engine.HandSize)
}

func TestWebsocketRejectsIllegalCall(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv, ts := newTestServer(t)
	tableID, tokens := seatAll(t, ts)
	postJSON(t, fmt.Sprintf("%s/tables/%s/start", ts.URL, tableID))

	tbl, ok := srv.table(mustUUID(t, tableID))
	require.True(t, ok)
	dealer := tbl.Engine.Dealer

	// Connect as a seat that is not on turn and try to call.
	offTurn := dealer.Next()
	conn, _, err := websocket.Dial(ctx, ts.URL+"/ws?token="+tokens[offTurn.String()], nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	msg, _ := json.Marshal(ClientMessage{Type: "call", Value: "P"})
	require.NoError(t, conn.Write(ctx, websocket.MessageText, msg))

	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var em ErrorMessage
		require.NoError(t, json.Unmarshal(data, &em))
		if em.Type != "error" {
			continue // skip ordinary table events
		}
		assert.Equal(t, "protocol", em.Code)
		return
	}
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, "protocol", errorCode(fmt.Errorf("%w: not your turn", engine.ErrOutOfTurn)))
	assert.Equal(t, "illegal", errorCode(fmt.Errorf("%w: must follow hearts", engine.ErrMustFollowSuit)))
	assert.Equal(t, "fault", errorCode(engine.ErrInvalidBid))
	assert.Equal(t, "rejected", errorCode(fmt.Errorf("player is not seated")))
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func readEvent(ctx context.Context, t *testing.T, conn *websocket.Conn) game.Event {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var ev game.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}
