// Package websocket реализует live-ленту новых ответов для владельца формы.
// Владелец подписывается на UUID своей формы; каждая успешная отправка
// формы рассылается подписчикам после коммита транзакции.
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Типы событий live-ленты
const (
	EventResponseReceived = "response:received"
)

// Event — одно событие, рассылаемое подписчикам формы
type Event struct {
	Type      string      `json:"type"`
	FormUUID  string      `json:"form_uuid"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub управляет подписками клиентов на формы и рассылкой событий
type Hub struct {
	mu sync.RWMutex
	// подписчики по UUID формы
	subscribers map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
}

// NewHub создает новый hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Client]struct{}),
		register:    make(chan *Client, 16),
		unregister:  make(chan *Client, 16),
		broadcast:   make(chan Event, 128),
	}
}

// Run обрабатывает регистрацию клиентов и рассылку событий до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case event := <-h.broadcast:
			h.deliver(event)

		case <-ctx.Done():
			log.Println("[WSHub] Завершение работы hub")
			h.closeAll()
			return
		}
	}
}

// NotifyResponseReceived рассылает событие о новой отправке подписчикам формы.
// Неблокирующая отправка: при переполнении буфера событие отбрасывается.
func (h *Hub) NotifyResponseReceived(formUUID string, responseCount int64) {
	event := Event{
		Type:      EventResponseReceived,
		FormUUID:  formUUID,
		Payload:   map[string]interface{}{"response_count": responseCount},
		Timestamp: time.Now(),
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[WSHub] Буфер событий переполнен, событие для формы %s отброшено", formUUID)
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.subscribers[client.formUUID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.subscribers[client.formUUID] = clients
	}
	clients[client] = struct{}{}
	log.Printf("[WSHub] Клиент user=%d подписан на форму %s (всего: %d)",
		client.userID, client.formUUID, len(clients))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.subscribers[client.formUUID]
	if !ok {
		return
	}
	if _, subscribed := clients[client]; !subscribed {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.subscribers, client.formUUID)
	}
}

func (h *Hub) deliver(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WSHub] Ошибка сериализации события: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.subscribers[event.FormUUID] {
		select {
		case client.send <- data:
		default:
			// Медленный клиент: не блокируем рассылку остальным
			log.Printf("[WSHub] Буфер клиента user=%d переполнен, событие пропущено", client.userID)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for formUUID, clients := range h.subscribers {
		for client := range clients {
			close(client.send)
		}
		delete(h.subscribers, formUUID)
	}
}
