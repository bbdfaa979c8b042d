package inmemory

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truevoice/server/internal/repository/connection"
)

// dial returns the server side of a fresh websocket pair and the client side.
func dial(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case conn := <-serverConns:
		t.Cleanup(func() { conn.Close() })
		return conn, client
	case <-time.After(5 * time.Second):
		t.Fatal("server side of websocket never arrived")
		return nil, nil
	}
}

func TestAddGetRemove(t *testing.T) {
	r := NewRepo(slog.Default())
	conn, _ := dial(t)

	require.NoError(t, r.Add(conn, "s1"))
	assert.ErrorIs(t, r.Add(conn, "s2"), connection.ErrAlreadyExists)

	got, err := r.GetConn("s1")
	require.NoError(t, err)
	assert.Same(t, conn, got)

	id, err := r.GetSessionID(conn)
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
	assert.Equal(t, 1, r.Len())

	id, err = r.RemoveByConn(conn)
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
	assert.Equal(t, 0, r.Len())

	_, err = r.GetConn("s1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	assert.ErrorIs(t, r.RemoveBySessionID("s1"), connection.ErrNotFound)
}

func TestBroadcast(t *testing.T) {
	r := NewRepo(slog.Default())
	conn1, client1 := dial(t)
	conn2, client2 := dial(t)
	require.NoError(t, r.Add(conn1, "s1"))
	require.NoError(t, r.Add(conn2, "s2"))

	failed := r.Broadcast(map[string]string{"type": "THEME_UPDATED"})
	assert.Empty(t, failed)

	for _, c := range []*websocket.Conn{client1, client2} {
		c.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg map[string]string
		require.NoError(t, c.ReadJSON(&msg))
		assert.Equal(t, "THEME_UPDATED", msg["type"])
	}

	conn2.Close()
	failed = r.Broadcast(map[string]string{"type": "X"})
	assert.Equal(t, []string{"s2"}, failed)
}
