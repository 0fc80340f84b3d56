package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"fincoach/internal/models"
)

// newConnPair dials a throwaway websocket server and returns both ends.
func newConnPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverCh <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverCh:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server connection")
	}
	return server, client
}

func TestHubPushAlerts(t *testing.T) {
	t.Run("delivers_to_owner", func(t *testing.T) {
		hub := NewHub()
		server, client := newConnPair(t)
		hub.AddClient(1, server)

		alert := models.Alert{UserID: 1, Type: models.AlertTypeDueSoon, Title: "Payment due soon", Priority: models.PriorityHigh}
		hub.PushAlerts(1, []models.Alert{alert})

		client.SetReadDeadline(time.Now().Add(time.Second))
		var event alertEvent
		if err := client.ReadJSON(&event); err != nil {
			t.Fatalf("failed to read pushed alert: %v", err)
		}
		if event.Event != "alert" {
			t.Errorf("expected event \"alert\", got %q", event.Event)
		}
		if event.Alert.Title != alert.Title {
			t.Errorf("expected title %q, got %q", alert.Title, event.Alert.Title)
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		hub := NewHub()
		server, client := newConnPair(t)
		hub.AddClient(1, server)

		hub.PushAlerts(2, []models.Alert{{UserID: 2, Title: "Not yours"}})

		client.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		var event alertEvent
		if err := client.ReadJSON(&event); err == nil {
			t.Error("expected no message for another user's alert")
		}
	})

	t.Run("concurrent_pushes_are_delivered_in_full", func(t *testing.T) {
		hub := NewHub()
		server, client := newConnPair(t)
		hub.AddClient(1, server)

		const writers, perWriter = 4, 5
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					hub.PushAlerts(1, []models.Alert{{UserID: 1, Title: "Burst"}})
				}
			}()
		}
		wg.Wait()

		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		for i := 0; i < writers*perWriter; i++ {
			var event alertEvent
			if err := client.ReadJSON(&event); err != nil {
				t.Fatalf("read %d failed: %v", i, err)
			}
			if event.Event != "alert" {
				t.Errorf("expected event \"alert\", got %q", event.Event)
			}
		}
	})

	t.Run("push_after_remove_is_noop", func(t *testing.T) {
		hub := NewHub()
		server, _ := newConnPair(t)
		hub.AddClient(1, server)
		hub.RemoveClient(1, server)

		hub.mu.RLock()
		_, tracked := hub.clients[1]
		hub.mu.RUnlock()
		if tracked {
			t.Error("expected user entry removed with its last connection")
		}

		hub.PushAlerts(1, []models.Alert{{UserID: 1, Title: "Dropped"}})
	})
}
