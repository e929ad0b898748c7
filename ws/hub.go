package ws

import (
	"context"
	"sync"

	"jobboard_backend/internal/logger"
)

// OutgoingMessage - конверт всех сообщений, уходящих клиенту
type OutgoingMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub держит активные соединения по userID (у пользователя может быть несколько вкладок)
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			h.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID)

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Register добавляет клиента; после остановки хаба возвращает false
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
	logger.Debug("ws client unregistered", "user_id", client.UserID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.clients {
		for client := range set {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

// SendToUser отправляет сообщение во все соединения пользователя.
// Возвращает число соединений, в которые сообщение попало. Не блокирует:
// медленный клиент с заполненным буфером отключается.
func (h *Hub) SendToUser(userID string, msg OutgoingMessage) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.clients[userID] {
		select {
		case client.send <- msg:
			delivered++
		default:
			go h.Unregister(client)
		}
	}
	return delivered
}

// IsConnected проверяет, есть ли у пользователя открытые соединения
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}
