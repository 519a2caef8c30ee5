package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"scribble/internal/models"
)

// Hub maintains the set of active feed clients and fans post events out
// to them. Clients without an author filter receive every event; clients
// subscribed to an author receive only that author's events.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Post events to fan out.
	events chan Message

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		events:     make(chan Message),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Notify queues a post event for broadcast. Implements services.FeedNotifier.
func (h *Hub) Notify(action string, post models.Post) {
	h.events <- Message{Action: action, Payload: post}
}

// Run starts the Hub's event processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Feed client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case msg := <-h.events:
			payload, err := json.Marshal(msg)
			if err != nil {
				log.Error().Err(err).Str("action", msg.Action).Msg("Failed to encode feed event")
				continue
			}
			for client := range h.clients {
				if client.Author != "" && client.Author != msg.Payload.AuthorName {
					continue
				}
				select {
				case client.Send <- payload:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}
