package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"urbik/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client connects from a separate origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Inbound event names.
const (
	eventJoin           = "join"
	eventUpdateLocation = "update-location-captain"
	eventCaptainOffline = "captain-offline"
)

type joinPayload struct {
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
}

type locationPayload struct {
	UserID   string `json:"userId"`
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

type offlinePayload struct {
	UserID string `json:"userId"`
}

// inboundFrame keeps the data half raw so each event can bind its own shape.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SocketHandler upgrades HTTP requests to websocket sessions and routes
// inbound events to the captain directory.
type SocketHandler struct {
	relay     *Relay
	directory *service.DirectoryService
}

// NewSocketHandler creates a new SocketHandler.
func NewSocketHandler(relay *Relay, directory *service.DirectoryService) *SocketHandler {
	return &SocketHandler{relay: relay, directory: directory}
}

// Serve handles GET /ws.
func (h *SocketHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: upgrade failed: %v", err)
		return
	}

	socketID := uuid.New().String()
	h.relay.Register(socketID, conn)
	log.Printf("realtime: socket %s connected", socketID)

	go h.readLoop(socketID, conn)
}

// readLoop consumes inbound frames until the connection drops, then clears
// the owning rider's or captain's connection state.
func (h *SocketHandler) readLoop(socketID string, conn *websocket.Conn) {
	defer func() {
		h.relay.Remove(socketID)
		h.directory.Disconnect(context.Background(), socketID)
		conn.Close()
		log.Printf("realtime: socket %s disconnected", socketID)
	}()

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: socket %s read error: %v", socketID, err)
			}
			return
		}
		h.handle(socketID, frame)
	}
}

func (h *SocketHandler) handle(socketID string, frame inboundFrame) {
	ctx := context.Background()

	switch frame.Event {
	case eventJoin:
		var p joinPayload
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.UserID == "" {
			h.relay.Send(socketID, service.EventError, gin.H{"message": "invalid join payload"})
			return
		}
		var err error
		switch p.UserType {
		case "user":
			err = h.directory.ConnectRider(ctx, p.UserID, socketID)
		case "captain":
			err = h.directory.ConnectCaptain(ctx, p.UserID, socketID)
		default:
			h.relay.Send(socketID, service.EventError, gin.H{"message": "unknown user type"})
			return
		}
		if err != nil {
			log.Printf("realtime: join for %s %s failed: %v", p.UserType, p.UserID, err)
			h.relay.Send(socketID, service.EventError, gin.H{"message": "join failed"})
		}

	case eventUpdateLocation:
		var p locationPayload
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.UserID == "" {
			h.relay.Send(socketID, service.EventError, gin.H{"message": "invalid location payload"})
			return
		}
		if err := h.directory.SetActive(ctx, p.UserID, p.Location.Lat, p.Location.Lng); err != nil {
			h.relay.Send(socketID, service.EventError, gin.H{"message": err.Error()})
			return
		}
		h.relay.Send(socketID, service.EventLocationUpdated, gin.H{
			"userId": p.UserID,
			"lat":    p.Location.Lat,
			"lng":    p.Location.Lng,
		})

	case eventCaptainOffline:
		var p offlinePayload
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.UserID == "" {
			h.relay.Send(socketID, service.EventError, gin.H{"message": "invalid offline payload"})
			return
		}
		if err := h.directory.SetInactive(ctx, p.UserID); err != nil {
			h.relay.Send(socketID, service.EventError, gin.H{"message": "going offline failed"})
			return
		}
		h.relay.Send(socketID, service.EventStatusUpdated, gin.H{
			"userId": p.UserID,
			"status": "inactive",
		})

	default:
		log.Printf("realtime: socket %s sent unknown event %q", socketID, frame.Event)
	}
}
