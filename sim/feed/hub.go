// Package feed streams park notifications and per-tick summaries to
// websocket clients. A Hub is a sim.Observer; the process driving the
// simulator also calls PublishTick after each tick.
package feed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/parksim/parksim/sim"
	"github.com/parksim/parksim/sim/road"
)

// Message types.
const (
	TypeWelcome  = "welcome"
	TypeTick     = "tick"
	TypeBroke    = "broke"
	TypeRepaired = "repaired"
	TypeGameOver = "gameover"
)

// Message is the JSON frame sent to clients.
type Message struct {
	Type     string     `json:"type"`
	Clock    int64      `json:"clock"`
	At       *road.Tile `json:"at,omitempty"`
	Stats    *sim.Stats `json:"stats,omitempty"`
	ClientID string     `json:"client_id,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	clock      func() int64
}

var _ sim.Observer = (*Hub)(nil)

// NewHub creates a hub that stamps notifications with clock().
func NewHub(clock func() int64) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		clock:      clock,
	}
}

// Run handles client connections and broadcasts until ctx is done.
// A hub is run at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Feed hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logrus.Infof("Feed client %s connected", client.ID)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logrus.Infof("Feed client %s disconnected", client.ID)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
					logrus.Warnf("Feed client %s is too slow, dropping it", client.ID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// PublishTick broadcasts a park summary.
func (h *Hub) PublishTick(stats sim.Stats) {
	h.publish(Message{Type: TypeTick, Clock: stats.Clock, Stats: &stats})
}

func (h *Hub) OnObjectBroke(at road.Tile) {
	h.publish(Message{Type: TypeBroke, Clock: h.clock(), At: &at})
}

func (h *Hub) OnObjectRepaired(at road.Tile) {
	h.publish(Message{Type: TypeRepaired, Clock: h.clock(), At: &at})
}

func (h *Hub) OnGameOver() {
	h.publish(Message{Type: TypeGameOver, Clock: h.clock()})
}

// publish never blocks the tick loop: when the hub falls behind, the
// message is dropped.
func (h *Hub) publish(m Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		logrus.Errorf("Failed to serialize %s message: %v", m.Type, err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		logrus.Warnf("Feed backlog full, dropping %s message", m.Type)
	}
}
