// Package ws provides the real-time channel for the operations dashboard.
// Observers connect over WebSocket and join mission-scoped rooms; telemetry
// updates are fanned out per mission, emergency alerts go to every
// connected observer. Delivery is best-effort and at-most-once: there is
// no replay buffer, and a slow or disconnected observer is simply skipped.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types pushed to observers.
const (
	EventTelemetryUpdate = "telemetry_update"
	EventAlertRaised     = "alert_raised"
	EventAlertResolved   = "alert_resolved"
)

// Event is the envelope for every server-to-observer message.
type Event struct {
	Type      string      `json:"type"`
	MissionID string      `json:"missionId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// NewEvent stamps an event envelope with the current time.
func NewEvent(eventType, missionID string, data interface{}) Event {
	return Event{Type: eventType, MissionID: missionID, Timestamp: time.Now().UTC(), Data: data}
}

// ClientMessage is an inbound message from an observer.
type ClientMessage struct {
	Action    string `json:"action"`
	MissionID string `json:"missionId"`
}

// Publisher is the fan-out seam the domain services depend on. Broadcast
// reaches observers joined to the event's mission; BroadcastAll reaches
// every connected observer.
type Publisher interface {
	Broadcast(missionID string, event Event)
	BroadcastAll(event Event)
}

// Client is a single observer connection.
type Client struct {
	ID       string
	Send     chan []byte
	missions map[string]struct{}
}

// NewClient builds a client with the given send buffer size. A buffer of
// zero falls back to the default of 256 messages.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 256
	}
	return &Client{
		ID:       id,
		Send:     make(chan []byte, buffer),
		missions: make(map[string]struct{}),
	}
}

// Hub tracks connected observers and their mission memberships. All
// operations are safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	missions map[string]map[*Client]struct{} // mission id -> members
	all      map[*Client]struct{}
	logger   zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		missions: make(map[string]map[*Client]struct{}),
		all:      make(map[*Client]struct{}),
		logger:   logger,
	}
}

// Register adds a connected observer. Observers start with no mission
// membership; alerts still reach them via BroadcastAll.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.all[client] = struct{}{}
}

// Unregister removes an observer from every mission and closes its Send
// channel. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	for mission := range client.missions {
		h.removeMemberLocked(mission, client)
	}

	delete(h.all, client)
	close(client.Send)
}

// Join subscribes an observer to a mission room.
func (h *Hub) Join(client *Client, missionID string) {
	if missionID == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	if h.missions[missionID] == nil {
		h.missions[missionID] = make(map[*Client]struct{})
	}
	h.missions[missionID][client] = struct{}{}
	client.missions[missionID] = struct{}{}
}

// Leave removes an observer from a mission room.
func (h *Hub) Leave(client *Client, missionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeMemberLocked(missionID, client)
	delete(client.missions, missionID)
}

func (h *Hub) removeMemberLocked(missionID string, client *Client) {
	members, ok := h.missions[missionID]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.missions, missionID)
	}
}

// ProcessMessage dispatches an inbound observer message. Unknown actions
// are ignored.
func (h *Hub) ProcessMessage(client *Client, msg ClientMessage) {
	switch msg.Action {
	case "join_mission":
		h.Join(client, msg.MissionID)
	case "leave_mission":
		h.Leave(client, msg.MissionID)
	}
}

// Broadcast delivers an event to every current member of a mission room.
// Observers that joined after the call see nothing; members with a full
// send buffer are skipped rather than blocked on.
func (h *Hub) Broadcast(missionID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.missions[missionID] {
		select {
		case client.Send <- data:
		default:
			// Buffer full; drop for this observer.
		}
	}
}

// BroadcastAll delivers an event to every connected observer regardless of
// mission membership. Used for emergency alerts.
func (h *Hub) BroadcastAll(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.all {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected observers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// MissionCount returns the number of observers joined to a mission.
func (h *Hub) MissionCount(missionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.missions[missionID])
}
