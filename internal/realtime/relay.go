// Package realtime delivers named events to individual live connections.
// The relay owns only the connection-id to session mapping; rider and
// captain business state stays in their repositories.
package realtime

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"urbik/internal/observability"
)

// Envelope is the wire frame for every event in either direction.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// session wraps a websocket connection with a write mutex, since gorilla
// connections allow only one concurrent writer.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) send(event string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(Envelope{Event: event, Data: data})
}

// Relay maps live connection ids to websocket sessions. One instance exists
// per process, created at server start.
type Relay struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewRelay creates an empty relay.
func NewRelay() *Relay {
	return &Relay{sessions: make(map[string]*session)}
}

// Register records that socketID is reachable at conn, overwriting any prior
// session under the same id.
func (r *Relay) Register(socketID string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[socketID]; !ok {
		observability.ConnectionsActive.Inc()
	}
	r.sessions[socketID] = &session{conn: conn}
}

// Remove drops the session for socketID, if any.
func (r *Relay) Remove(socketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[socketID]; ok {
		delete(r.sessions, socketID)
		observability.ConnectionsActive.Dec()
	}
}

// Send delivers data under event to the single connection identified by
// socketID. Delivery is fire-and-forget: an empty or unknown id, or a failed
// write, is logged and dropped.
func (r *Relay) Send(socketID, event string, data any) {
	if socketID == "" {
		log.Printf("relay: dropping %q event, no socket id", event)
		return
	}

	r.mu.RLock()
	s, ok := r.sessions[socketID]
	r.mu.RUnlock()
	if !ok {
		log.Printf("relay: dropping %q event, socket %s not connected", event, socketID)
		return
	}

	if err := s.send(event, data); err != nil {
		log.Printf("relay: send %q to socket %s failed: %v", event, socketID, err)
	}
}

// Count returns the number of live sessions.
func (r *Relay) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
