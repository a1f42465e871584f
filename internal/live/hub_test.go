package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	handler := hub.Handler(func(r *http.Request) string {
		return r.URL.Query().Get("match")
	}, []string{"http://allowed.test"})
	server := httptest.NewServer(handler)

	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, matchID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?match=" + matchID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcast(t *testing.T) {
	hub, server := setupHub(t)

	watcher := dial(t, server, "m1")
	other := dial(t, server, "m2")
	require.Eventually(t, func() bool {
		return hub.Subscribers("m1") == 1 && hub.Subscribers("m2") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast("m1", EventMatchUpdated, map[string]int{"placarA": 2})

	watcher.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := watcher.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type    string         `json:"type"`
		MatchID string         `json:"matchId"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, EventMatchUpdated, event.Type)
	assert.Equal(t, "m1", event.MatchID)
	assert.Equal(t, 2, event.Payload["placarA"])

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "other matches receive nothing")
}

func TestUnsubscribeOnClose(t *testing.T) {
	hub, server := setupHub(t)

	conn := dial(t, server, "m1")
	require.Eventually(t, func() bool { return hub.Subscribers("m1") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers("m1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHandler_Rejections(t *testing.T) {
	_, server := setupHub(t)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?match=m1"
	header := http.Header{"Origin": []string{"http://evil.test"}}
	_, resp, err = websocket.DefaultDialer.Dial(url, header)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
