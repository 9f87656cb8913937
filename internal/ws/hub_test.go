package ws

import (
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

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func dialTestClient(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := NewClient(hub, conn)
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "pond_7", PondTopic(7))
	assert.Equal(t, "farm_3", FarmTopic(3))
}

func TestPublishReachesSubscribedClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialTestClient(t, hub)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"action": "subscribe",
		"topic":  PondTopic(1),
	}))

	// Wait for the subscription to land before publishing.
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(PondTopic(1)) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(PondTopic(1), "sensorData", map[string]interface{}{"pond_id": 1})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type  string `json:"type"`
		Topic string `json:"topic"`
	}
	require.NoError(t, json.Unmarshal(message, &msg))
	assert.Equal(t, "sensorData", msg.Type)
	assert.Equal(t, PondTopic(1), msg.Topic)
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialTestClient(t, hub)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"action": "subscribe",
		"topic":  PondTopic(1),
	}))
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(PondTopic(1)) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(PondTopic(2), "sensorData", map[string]interface{}{"pond_id": 2})

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "client must not receive traffic for other topics")
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialTestClient(t, hub)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"action": "subscribe",
		"topic":  FarmTopic(5),
	}))
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(FarmTopic(5)) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"action": "unsubscribe",
		"topic":  FarmTopic(5),
	}))
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(FarmTopic(5)) == 0
	}, time.Second, 10*time.Millisecond)

	hub.Publish(FarmTopic(5), "alert", map[string]interface{}{"id": 1})

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestPublishWithNoSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(PondTopic(99), "sensorData", map[string]interface{}{"i": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked with no subscribers")
	}
}
