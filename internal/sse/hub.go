package sse

import (
	"bytes"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/metrics"
)

// Event is one message on the stream
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`

	// Audience limits delivery to one participant; empty means everyone
	Audience string `json:"-"`
}

// Client is one open stream
type Client struct {
	ID            string
	ParticipantID string
	EventChannel  chan Event

	// filter is nil when the client wants every type
	filter map[string]bool
}

func (c *Client) wants(evt Event) bool {
	if c.filter != nil && !c.filter[evt.Type] {
		return false
	}
	return evt.Audience == "" || evt.Audience == c.ParticipantID
}

// Hub owns the set of open streams. A single goroutine fans events out, so
// client channels are only ever written and closed from that goroutine.
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex

	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	now      func() time.Time
}

// NewHub creates a hub; call Start before use
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
		now:        time.Now,
	}
}

// Start runs the fan-out loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the fan-out loop and closes every client channel, which ends
// their streams. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for id, client := range h.clients {
			close(client.EventChannel)
			delete(h.clients, id)
		}
		h.mu.Unlock()
		metrics.SSEClients.Set(0)
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			metrics.SSEClients.Inc()

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[clientID]; ok {
				close(client.EventChannel)
				delete(h.clients, clientID)
				metrics.SSEClients.Dec()
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.fanOut(evt)

		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) fanOut(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if !client.wants(evt) {
			continue
		}
		select {
		case client.EventChannel <- evt:
		default:
			metrics.SSEEventsDropped.WithLabelValues(metrics.SSEDropClientBuffer).Inc()
		}
	}
}

// Register opens a stream. participantID may be empty for anonymous
// viewers, who only see public events. After Stop the returned client's
// channel is already closed.
func (h *Hub) Register(participantID string, eventTypes []string) *Client {
	client := &Client{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		EventChannel:  make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		client.filter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			client.filter[t] = true
		}
	}

	select {
	case <-h.shutdown:
		close(client.EventChannel)
		return client
	default:
	}

	select {
	case h.register <- client:
	case <-h.shutdown:
		close(client.EventChannel)
	}
	return client
}

// Unregister closes a stream
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast sends an event to every interested client
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	h.BroadcastTo("", eventType, payload)
}

// BroadcastTo sends an event only to streams opened by participantID.
// The event is dropped when the hub is backed up.
func (h *Hub) BroadcastTo(participantID, eventType string, payload interface{}) {
	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: h.now().Unix(),
		Payload:   payload,
		Audience:  participantID,
	}

	select {
	case h.broadcast <- evt:
	default:
		metrics.SSEEventsDropped.WithLabelValues(metrics.SSEDropHubBuffer).Inc()
	}
}

// ClientCount returns the number of open streams
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders evt in the text/event-stream wire format
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if evt.ID != "" {
		buf.WriteString("id: " + evt.ID + "\n")
	}
	buf.WriteString("event: " + evt.Type + "\n")
	buf.WriteString("data: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

// retryDirective tells EventSource clients how long to wait before reconnecting
func retryDirective() []byte {
	return []byte("retry: " + strconv.FormatInt(ClientRetry.Milliseconds(), 10) + "\n\n")
}

// keepaliveComment is ignored by EventSource but keeps proxies from timing out
var keepaliveComment = []byte(": keepalive\n\n")
