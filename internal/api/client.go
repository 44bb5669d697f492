package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection and the session it drives.
type Client struct {
	id      int64
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session *Remote
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and starts a session. The seed comes from the
// seed query parameter, otherwise from the store seed plus a session number.
func (s *Server) ServeWs(w http.ResponseWriter, r *http.Request) {
	t := s.store.Tuning()
	id := s.hub.nextSession()
	t.Seed += id
	if q := r.URL.Query().Get("seed"); q != "" {
		seed, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			http.Error(w, "seed must be an integer", http.StatusBadRequest)
			return
		}
		t.Seed = seed
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws: upgrade:", err)
		return
	}
	c := &Client{
		id:      id,
		hub:     s.hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		session: NewRemote(t, nil),
	}
	for _, m := range c.session.Drain() {
		c.enqueue(m)
	}

	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// enqueue encodes m onto the send buffer, dropping it when the buffer is full.
func (c *Client) enqueue(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("ws: session %d encode %s: %v", c.id, m.Type, err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("ws: session %d send buffer full, dropping %s", c.id, m.Type)
	}
}

// readPump decodes client messages and feeds them to the session. It is the
// session's only caller.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: session %d: %v", c.id, err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.enqueue(Message{Type: MsgError, Payload: "malformed message: " + err.Error()})
			continue
		}
		for _, m := range c.session.Handle(msg) {
			c.enqueue(m)
		}
	}
}

// writePump writes queued messages to the connection.
func (c *Client) writePump() {
	defer c.conn.Close()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-c.hub.done:
			return
		}
	}
}
