package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"geneailogy/tree-service/internal/models"
	"geneailogy/tree-service/internal/service"
	"geneailogy/tree-service/pkg/logger"
)

// WebSocket timeout constants following Gorilla best practices
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Hub fans inbound notification events out to the live sessions of each
// viewer. A viewer may hold several sessions (several tabs); each session
// owns its own queue.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*LiveSession]struct{}
	log      *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]map[*LiveSession]struct{}),
		log:      log,
	}
}

// Broadcast delivers one event batch to every live session of the viewer.
// Sessions that cannot keep up have the batch dropped rather than blocking
// the publisher; the persisted notification list remains the catch-up path.
func (h *Hub) Broadcast(viewerID string, events []models.NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for session := range h.sessions[viewerID] {
		select {
		case session.inbound <- events:
		default:
			h.log.WithViewerID(viewerID).Warn("Live session inbound channel full, dropping batch")
		}
	}
}

func (h *Hub) register(session *LiveSession) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[session.viewerID] == nil {
		h.sessions[session.viewerID] = make(map[*LiveSession]struct{})
	}
	h.sessions[session.viewerID][session] = struct{}{}
}

func (h *Hub) unregister(session *LiveSession) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessions, ok := h.sessions[session.viewerID]; ok {
		delete(sessions, session)
		if len(sessions) == 0 {
			delete(h.sessions, session.viewerID)
		}
	}
}

// LiveSession binds one WebSocket connection to one notification queue. The
// run loop is the only goroutine that touches the queue, so batches and acks
// are applied strictly in delivery order and the queue needs no locking.
type LiveSession struct {
	viewerID string
	conn     *websocket.Conn
	queue    *service.NotificationQueue
	hub      *Hub
	log      *logger.Logger

	displayTimeout time.Duration

	inbound   chan []models.NotificationEvent
	acks      chan struct{}
	resets    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// clientFrame is a control frame sent by the display host
type clientFrame struct {
	Type string `json:"type"`
}

// LiveHandler upgrades notification stream connections
type LiveHandler struct {
	hub            *Hub
	log            *logger.Logger
	displayTimeout time.Duration
	upgrader       websocket.Upgrader
}

func NewLiveHandler(hub *Hub, log *logger.Logger, displayTimeout time.Duration) *LiveHandler {
	return &LiveHandler{
		hub:            hub,
		log:            log,
		displayTimeout: displayTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checks belong to the upstream gateway
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS handles GET /ws/notifications?viewer_id=...
func (h *LiveHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	if viewer == "" {
		writeError(w, http.StatusBadRequest, "viewer_id is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithViewerID(viewer).WithField("error", err.Error()).Warn("WebSocket upgrade failed")
		return
	}

	session := &LiveSession{
		viewerID:       viewer,
		conn:           conn,
		queue:          service.NewNotificationQueue(nil, h.log),
		hub:            h.hub,
		log:            h.log,
		displayTimeout: h.displayTimeout,
		inbound:        make(chan []models.NotificationEvent, 16),
		acks:           make(chan struct{}, 16),
		resets:         make(chan struct{}, 1),
		done:           make(chan struct{}),
	}

	// The session starts observing the stream now; older events are ignored
	// permanently.
	session.queue.StartSession()
	h.hub.register(session)

	h.log.WithViewerID(viewer).Info("Live notification session started")

	go session.run()
	session.readPump()
}

// readPump reads control frames (acks) from the display host
func (s *LiveSession) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame clientFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				s.log.WithViewerID(s.viewerID).WithField("error", err.Error()).Warn("WebSocket read error")
			}
			return
		}

		switch frame.Type {
		case "ack":
			select {
			case s.acks <- struct{}{}:
			default:
			}
		case "reset":
			// Sent when the client refreshes its identity in place; the
			// session keeps the socket but forgets everything it has seen
			select {
			case s.resets <- struct{}{}:
			default:
			}
		case "ping":
			// Deadline already extended by the pong handler
		default:
			s.log.WithViewerID(s.viewerID).WithField("type", frame.Type).Debug("Unknown live frame type")
		}
	}
}

// run applies inbound batches, acks and the display timeout in delivery
// order and pushes display changes to the client
func (s *LiveSession) run() {
	ticker := time.NewTicker(pingPeriod)
	displayTimer := time.NewTimer(s.displayTimeout)
	stopTimer(displayTimer)

	defer func() {
		ticker.Stop()
		displayTimer.Stop()
		s.hub.unregister(s)
		s.queue.EndSession()
		s.conn.Close()
		s.log.WithViewerID(s.viewerID).Info("Live notification session ended")
	}()

	var displayedID string

	for {
		select {
		case events := <-s.inbound:
			s.queue.OnInboundBatch(events)
			if !s.syncDisplay(&displayedID, displayTimer) {
				return
			}

		case <-s.acks:
			s.queue.Acknowledge()
			if !s.syncDisplay(&displayedID, displayTimer) {
				return
			}

		case <-s.resets:
			s.queue.ResetSession()
			if !s.syncDisplay(&displayedID, displayTimer) {
				return
			}

		case <-displayTimer.C:
			// Auto-dismiss is the same operation as a user acknowledge
			s.queue.Acknowledge()
			if !s.syncDisplay(&displayedID, displayTimer) {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			return
		}
	}
}

// syncDisplay pushes the current event to the client when it changed,
// arming the auto-dismiss timer alongside. Returns false on write failure.
func (s *LiveSession) syncDisplay(displayedID *string, displayTimer *time.Timer) bool {
	current := s.queue.Current()

	if current == nil {
		if *displayedID != "" {
			*displayedID = ""
			stopTimer(displayTimer)
			return s.writeJSON(map[string]string{"type": "clear"})
		}
		return true
	}

	if current.ID == *displayedID {
		return true
	}

	*displayedID = current.ID
	stopTimer(displayTimer)
	displayTimer.Reset(s.displayTimeout)

	return s.writeJSON(map[string]interface{}{
		"type":    "notification",
		"data":    current,
		"pending": s.queue.PendingCount(),
	})
}

func (s *LiveSession) writeJSON(payload interface{}) bool {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(payload); err != nil {
		s.log.WithViewerID(s.viewerID).WithField("error", err.Error()).Warn("Live session write error")
		return false
	}
	return true
}

func (s *LiveSession) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
