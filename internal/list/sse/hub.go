package sse

import (
	"fmt"
	"log"
	"sync"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// GlobalHub is the singleton SSE Hub instance
var GlobalHub = NewHub()

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("[SSE] Client registered: id=%s user=%s (total: %d)", client.ID, client.UserID, len(h.clients))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		log.Printf("[SSE] Client unregistered: id=%s (total: %d)", clientID, len(h.clients))
	}
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			log.Printf("[SSE] Client %s buffer full, skipping event", client.ID)
		}
	}
}

// SendToUser 给特定用户发送事件（而非广播）
func (h *Hub) SendToUser(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Events <- event:
			default:
				log.Printf("[SSE] Client %s buffer full, skipping user event", client.ID)
			}
		}
	}
}

// PublishVersionPublished 新版本发布后通知所有在线查看端刷新
func PublishVersionPublished(kind, versionID string, weekNumber, year int) {
	data := fmt.Sprintf(`{"list_kind":"%s","version_id":"%s","week_number":%d,"year":%d}`, kind, versionID, weekNumber, year)
	GlobalHub.Broadcast(Event{
		EventType: "version_published",
		Data:      data,
	})
	log.Printf("[SSE] Published version_published: kind=%s version=%s week=%d/%d", kind, versionID, weekNumber, year)
}

// PublishNotification 给特定用户推送未读通知提醒
func PublishNotification(userID, kind, message string) {
	data := fmt.Sprintf(`{"list_kind":"%s","message":"%s"}`, kind, message)
	GlobalHub.SendToUser(userID, Event{
		EventType: "notification",
		Data:      data,
	})
}
