package web

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

	"github.com/nyxia-labs/mira/llm"
	"github.com/nyxia-labs/mira/memory"
	"github.com/nyxia-labs/mira/memory/embedder/mock"
	"github.com/nyxia-labs/mira/memory/store/chromem"
	"github.com/nyxia-labs/mira/persona"
	"github.com/nyxia-labs/mira/runtime"
)

type fixedBackend struct {
	reply string
}

func (b *fixedBackend) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	return b.reply, nil
}

func newTestGateway(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := chromem.New(chromem.Config{})
	require.NoError(t, err)

	manager := memory.NewManager(store, mock.New(), nil, nil)
	character := persona.FromProfile(persona.DefaultProfile(), nil)
	session := runtime.NewSession(character, manager, &fixedBackend{reply: "Hello from the other side!"})

	srv := httptest.NewServer(NewServer(session).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketMessageRoundTrip(t *testing.T) {
	srv := newTestGateway(t)
	conn := dialWS(t, srv)

	require.NoError(t, conn.WriteJSON(Event{Type: "message", Text: "hi there"}))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply Event
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "reply", reply.Type)
	assert.Equal(t, "Hello from the other side!", reply.Text)
}

func TestWebSocketStatsEvent(t *testing.T) {
	srv := newTestGateway(t)
	conn := dialWS(t, srv)

	require.NoError(t, conn.WriteJSON(Event{Type: "message", Text: "remember this"}))
	var reply Event
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&reply))

	require.NoError(t, conn.WriteJSON(Event{Type: "stats"}))
	var stats Event
	require.NoError(t, conn.ReadJSON(&stats))
	assert.Equal(t, "stats", stats.Type)
	require.NotNil(t, stats.Stats)
	assert.Equal(t, "Mira", stats.Stats.Character)
	assert.Equal(t, 1, stats.Stats.Memory.ShortTermSize)
}

func TestWebSocketIgnoresUnknownEvents(t *testing.T) {
	srv := newTestGateway(t)
	conn := dialWS(t, srv)

	require.NoError(t, conn.WriteJSON(Event{Type: "mystery"}))
	require.NoError(t, conn.WriteJSON(Event{Type: "message", Text: "still alive?"}))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply Event
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "reply", reply.Type)
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestGateway(t)

	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var stats runtime.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, "Mira", stats.Character)
}
