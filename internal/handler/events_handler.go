package handler

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/schedule"
)

const (
	eventWriteWait  = 10 * time.Second
	eventSendBuffer = 16
)

type hubClient struct {
	conn *websocket.Conn
	send chan schedule.Event
}

// ScheduleHub fans schedule events out to websocket clients. Slow clients
// whose buffer is full are dropped.
type ScheduleHub struct {
	register   chan *hubClient
	unregister chan *hubClient
	broadcast  chan schedule.Event
	clients    map[*hubClient]struct{}
	count      int32
	logger     *zap.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// NewScheduleHub constructs a hub; call Run to start it.
func NewScheduleHub(logger *zap.Logger) *ScheduleHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleHub{
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
		broadcast:  make(chan schedule.Event, 64),
		clients:    make(map[*hubClient]struct{}),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Publish queues ev for every connected client. It never blocks the
// broadcaster; events are dropped when the hub is saturated.
func (h *ScheduleHub) Publish(ev schedule.Event) {
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("schedule hub saturated, dropping event", zap.String("path", ev.Path))
	}
}

// Clients returns the number of connected clients.
func (h *ScheduleHub) Clients() int {
	return int(atomic.LoadInt32(&h.count))
}

// Done is closed once Run has returned.
func (h *ScheduleHub) Done() <-chan struct{} {
	return h.done
}

// Run owns the client set until ctx is cancelled.
func (h *ScheduleHub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			h.stopOnce.Do(func() { close(h.done) })
			return ctx.Err()
		case client := <-h.register:
			h.clients[client] = struct{}{}
			atomic.StoreInt32(&h.count, int32(len(h.clients)))
		case client := <-h.unregister:
			h.remove(client)
		case ev := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- ev:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *ScheduleHub) remove(client *hubClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	atomic.StoreInt32(&h.count, int32(len(h.clients)))
}

// EventsHandler upgrades GET /events/schedule to a websocket and streams
// schedule events, starting with the current snapshot.
type EventsHandler struct {
	hub      *ScheduleHub
	watcher  *schedule.Watcher
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewEventsHandler constructs an EventsHandler. watcher may be nil.
func NewEventsHandler(hub *ScheduleHub, watcher *schedule.Watcher, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{
		hub:     hub,
		watcher: watcher,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Schedule serves the websocket stream.
func (h *EventsHandler) Schedule(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &hubClient{conn: conn, send: make(chan schedule.Event, eventSendBuffer)}
	if h.watcher != nil {
		now := time.Now().UTC()
		for path, active := range h.watcher.Snapshot() {
			if len(client.send) == cap(client.send) {
				break
			}
			client.send <- schedule.Event{Path: path, Active: active, At: now}
		}
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		_ = conn.Close()
		return
	case <-c.Request.Context().Done():
		_ = conn.Close()
		return
	}

	go h.writeLoop(client)
	h.readLoop(client)
}

func (h *EventsHandler) writeLoop(client *hubClient) {
	defer client.conn.Close()
	for ev := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
		if err := client.conn.WriteJSON(ev); err != nil {
			h.logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
	_ = client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop discards client frames until the connection closes.
func (h *EventsHandler) readLoop(client *hubClient) {
	defer func() {
		select {
		case h.hub.unregister <- client:
		case <-h.hub.done:
		}
		_ = client.conn.Close()
	}()
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
