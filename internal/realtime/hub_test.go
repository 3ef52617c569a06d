package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tiyende/internal/domain/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello Message
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, "connected", hello.Type)
	return conn
}

func TestHub_PublishReachesClients(t *testing.T) {
	hub := NewHub(nil, zap.NewNop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 1)
	}))
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	require.Equal(t, 2, hub.Clients())

	hub.Publish(models.Activity{ID: 9, Action: "Vendor created", Details: models.Details{"vendorName": "Kobs"}})

	for _, conn := range []*websocket.Conn{a, b} {
		var got struct {
			Type string          `json:"type"`
			Data models.Activity `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "activity", got.Type)
		assert.Equal(t, int64(9), got.Data.ID)
		assert.Equal(t, "Kobs", got.Data.Details["vendorName"])
	}
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub := NewHub([]string{"*"}, zap.NewNop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 1)
	}))
	defer srv.Close()

	conn := dial(t, srv)
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_CloseDisconnectsAll(t *testing.T) {
	hub := NewHub(nil, zap.NewNop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 1)
	}))
	defer srv.Close()

	conn := dial(t, srv)
	hub.Close()
	assert.Equal(t, 0, hub.Clients())

	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://admin.tiyende.com"})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://admin.tiyende.com")
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(r))
}
