package websocket

import "scribble/internal/models"

// Message defines the structure for feed messages pushed to clients.
// Action is one of "post.created", "post.updated" or "post.deleted".
type Message struct {
	Action  string      `json:"action"`
	Payload models.Post `json:"payload"`
}
