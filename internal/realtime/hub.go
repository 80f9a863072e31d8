// Package realtime serves the live funnel over websockets: every message a
// client sends is answered with a freshly computed dashboard view.
package realtime

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/contrib/v3/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seuros/hirefunnel/internal/dashboard"
	"github.com/seuros/hirefunnel/internal/history"
	"github.com/seuros/hirefunnel/internal/logging"
)

// Calculator builds dashboard views from raw client input.
type Calculator interface {
	View(rawLeads string, present bool, period history.Period) dashboard.View
	Period(raw string) (history.Period, error)
}

// Request is what a live client sends. TargetLeads may be a number or a string.
type Request struct {
	TargetLeads json.RawMessage `json:"target_leads"`
	Period      string          `json:"period"`
}

type errorMessage struct {
	Error string `json:"error"`
}

type Hub struct {
	calc        Calculator
	register    chan *Client
	unregister  chan *Client
	clientCount chan chan int
	clients     map[*Client]struct{}
}

type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

type Client struct {
	id   string
	hub  *Hub
	conn wsConn
	send chan []byte
}

type pingTicker interface {
	C() <-chan time.Time
	Stop()
}

type realPingTicker struct {
	*time.Ticker
}

func (t *realPingTicker) C() <-chan time.Time {
	return t.Ticker.C
}

var pingTickerFactory = func() pingTicker {
	return &realPingTicker{time.NewTicker(30 * time.Second)}
}

func NewHub(calc Calculator) *Hub {
	h := &Hub{
		calc:        calc,
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		clientCount: make(chan chan int),
		clients:     make(map[*Client]struct{}),
	}

	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				_ = client.conn.Close()
			}
		case response := <-h.clientCount:
			response <- len(h.clients)
		}
	}
}

// GetClientCount returns the number of open live sessions.
func (h *Hub) GetClientCount() int {
	response := make(chan int)
	h.clientCount <- response
	return <-response
}

func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := h.newClient(conn)
		logging.L().Debug("live session opened", zap.String("session", client.id))

		h.register <- client

		go client.writePump()
		client.readPump()
	})
}

func (h *Hub) newClient(conn wsConn) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, 16),
	}
}

// Respond computes the reply for one client message. A message that is not
// valid JSON counts as a present but invalid lead count.
func (h *Hub) Respond(msg []byte) []byte {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		req = Request{TargetLeads: json.RawMessage(`""`)}
	}

	period, err := h.calc.Period(req.Period)
	if err != nil {
		return mustMarshal(errorMessage{Error: err.Error()})
	}

	raw, present := leadsValue(req.TargetLeads)
	return mustMarshal(h.calc.View(raw, present, period))
}

// leadsValue turns the raw target_leads field into the text form input parsing
// expects. Absent or null means "use the default".
func leadsValue(raw json.RawMessage) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return trimmed, true
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		logging.L().Error("failed to encode live payload", zap.Error(err))
		b, _ = json.Marshal(errorMessage{Error: "internal error"})
	}
	return b
}

func (c *Client) readPump() {
	log := logging.With(zap.String("session", c.id))
	defer func() {
		c.hub.unregister <- c
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug("live session closed", zap.Error(err))
			break
		}
		select {
		case c.send <- c.hub.Respond(msg):
		default:
			log.Warn("dropping live payload", zap.String("reason", "slow consumer"))
		}
	}
}

func (c *Client) writePump() {
	ticker := pingTickerFactory()
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C():
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
