// Package websocket streams session notifications to connected clients.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	rendersession "github.com/bnema/mafia-engine/internal/adapters/render/session"
	"github.com/bnema/mafia-engine/internal/domain"
	"github.com/bnema/mafia-engine/internal/ports"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = time.Minute
	pingInterval = 50 * time.Second
	sendBuffer   = 32
)

const (
	EventChannel        = "channel"
	EventDirect         = "direct"
	EventPrivateChannel = "private_channel"
	EventRoster         = "roster"
	EventTally          = "tally"
)

// Event is the JSON frame sent to clients.
type Event struct {
	Type     string          `json:"type"`
	Session  string          `json:"session,omitempty"`
	Player   int64           `json:"player,omitempty"`
	Text     string          `json:"text,omitempty"`
	Ref      string          `json:"ref,omitempty"`
	Members  []int64         `json:"members,omitempty"`
	Tally    *domain.Tally   `json:"tally,omitempty"`
	Roster   []domain.Player `json:"roster,omitempty"`
	Rendered string          `json:"rendered,omitempty"`
}

// SessionReader loads the session a roster or tally frame describes.
type SessionReader interface {
	Get(ctx context.Context, key domain.SessionKey) (domain.Session, error)
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	session domain.SessionKey
	player  domain.PlayerID
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

func (c *client) wants(ev Event) bool {
	switch ev.Type {
	case EventDirect:
		return c.player != 0 && int64(c.player) == ev.Player
	case EventPrivateChannel:
		return c.player != 0 && string(c.session) == ev.Session && slices.Contains(ev.Members, int64(c.player))
	}
	return c.session == "" || string(c.session) == ev.Session
}

// Hub is both the websocket endpoint and a ports.Notifier.
// Clients subscribe with ?session=<key> and optionally ?player=<id> to receive direct messages
// and the private channels they belong to. The player id is trusted as given, like X-Actor-ID on
// the HTTP API, so the endpoint must sit behind the same authenticating proxy.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	sessions SessionReader
	logger   zerolog.Logger
}

var _ ports.Notifier = (*Hub)(nil)

func NewHub(sessions SessionReader, logger zerolog.Logger) *Hub {
	return &Hub{
		clients: map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var player domain.PlayerID
	if raw := r.URL.Query().Get("player"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid player id", http.StatusBadRequest)
			return
		}
		player = domain.PlayerID(id)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		session: domain.SessionKey(r.URL.Query().Get("session")),
		player:  player,
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug().Str("session", string(c.session)).Int64("player", int64(player)).Msg("websocket client connected")

	go h.writePump(c)
	h.readPump(c)
}

// Clients reports how many connections are open.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// readPump only keeps the connection alive; clients send commands over HTTP.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// broadcast returns how many clients the event was queued for. A client whose
// buffer is full is dropped.
func (h *Hub) broadcast(ctx context.Context, ev Event) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("encode %s event: %w", ev.Type, err)
	}

	var slow []*client
	delivered := 0
	h.mu.RLock()
	for c := range h.clients {
		if !c.wants(ev) {
			continue
		}
		select {
		case c.send <- payload:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn().Str("session", string(c.session)).Msg("dropping slow websocket client")
		h.remove(c)
	}
	return delivered, nil
}

func (h *Hub) NotifyChannel(ctx context.Context, key domain.SessionKey, text string) error {
	_, err := h.broadcast(ctx, Event{Type: EventChannel, Session: string(key), Text: text})
	return err
}

func (h *Hub) NotifyUser(ctx context.Context, playerID domain.PlayerID, text string) error {
	_, err := h.broadcast(ctx, Event{Type: EventDirect, Player: int64(playerID), Text: text})
	return err
}

func (h *Hub) RequestPrivateChannel(ctx context.Context, key domain.SessionKey, members []domain.PlayerID) (string, error) {
	ref := "ws-" + uuid.NewString()
	ids := make([]int64, len(members))
	for i, id := range members {
		ids[i] = int64(id)
	}
	if _, err := h.broadcast(ctx, Event{Type: EventPrivateChannel, Session: string(key), Ref: ref, Members: ids}); err != nil {
		return "", err
	}
	return ref, nil
}

func (h *Hub) UpdateRenderedRoster(ctx context.Context, key domain.SessionKey) error {
	session, err := h.load(ctx, key)
	if err != nil {
		return err
	}
	rendered, err := rendersession.Render(rendersession.ViewRoster, session, rendersession.RenderOptions{})
	if err != nil {
		return fmt.Errorf("render roster: %w", err)
	}
	_, err = h.broadcast(ctx, Event{Type: EventRoster, Session: string(key), Roster: publicRoster(session), Rendered: rendered})
	return err
}

func (h *Hub) UpdateRenderedTally(ctx context.Context, key domain.SessionKey) error {
	session, err := h.load(ctx, key)
	if err != nil {
		return err
	}
	tally := session.Tally()
	rendered, err := rendersession.Render(rendersession.ViewTally, session, rendersession.RenderOptions{})
	if err != nil {
		return fmt.Errorf("render tally: %w", err)
	}
	_, err = h.broadcast(ctx, Event{Type: EventTally, Session: string(key), Tally: &tally, Rendered: rendered})
	return err
}

func (h *Hub) load(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	if h.sessions == nil {
		return domain.Session{}, fmt.Errorf("websocket hub has no session reader")
	}
	session, err := h.sessions.Get(ctx, key)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session %s: %w", key, err)
	}
	return session, nil
}

// publicRoster hides roles, they are only ever sent by direct message.
func publicRoster(session domain.Session) []domain.Player {
	players := session.AllPlayers()
	for i := range players {
		players[i].Role = ""
	}
	return players
}
