package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aquaeye/internal/logger"
	"github.com/aquaeye/internal/metrics"
	"github.com/rs/zerolog"
)

// Hub maintains the set of live-view clients and routes messages to the
// topics they subscribed to. Delivery is best-effort, at-most-once: a
// client whose send buffer is full is dropped.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	topics     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	log        zerolog.Logger
}

type envelope struct {
	topic   string
	message []byte
}

// PondTopic is the per-unit topic for a pond's readings and alerts.
func PondTopic(pondID uint) string {
	return fmt.Sprintf("pond_%d", pondID)
}

// FarmTopic is the per-group topic covering all ponds of a farm.
func FarmTopic(farmID uint) string {
	return fmt.Sprintf("farm_%d", farmID)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		topics:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 64),
		log:        logger.WithComponent("ws"),
	}
}

// Run processes registration and broadcast traffic until the channel work
// stops. Start it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.WebsocketClients.Inc()
			h.log.Debug().Str("client_id", client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.removeClient(client)

		case env := <-h.broadcast:
			h.mu.RLock()
			subscribers := make([]*Client, 0, len(h.topics[env.topic]))
			for client := range h.topics[env.topic] {
				subscribers = append(subscribers, client)
			}
			h.mu.RUnlock()

			for _, client := range subscribers {
				select {
				case client.send <- env.message:
				default:
					// Blocked or gone; drop it rather than stall the hub.
					h.log.Debug().Str("client_id", client.ID).Msg("client send buffer full, removing")
					h.removeClient(client)
				}
			}
		}
	}
}

// Publish sends a typed payload to every subscriber of the topic.
func (h *Hub) Publish(topic, eventType string, payload interface{}) {
	message, err := json.Marshal(map[string]interface{}{
		"type":    eventType,
		"topic":   topic,
		"payload": payload,
	})
	if err != nil {
		h.log.Error().Err(err).Str("topic", topic).Msg("failed to marshal broadcast payload")
		return
	}
	h.broadcast <- envelope{topic: topic, message: message}
}

// Subscribe adds the client to a topic.
func (h *Hub) Subscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]bool)
	}
	h.topics[topic][client] = true
}

// Unsubscribe removes the client from a topic.
func (h *Hub) Unsubscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

// SubscriberCount returns how many clients listen on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for topic, subs := range h.topics {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	close(client.send)
	metrics.WebsocketClients.Dec()
}
