// Package server streams projected figures from a running generation session
// to remote websocket viewers.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akrol/geodebug/figure"
	"github.com/akrol/geodebug/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Frame is one broadcast message: the step count and the figure projected to
// the server's fixed viewport.
type Frame struct {
	Step      int              `json:"step"`
	Projected figure.Projected `json:"projected"`
}

type JoinRequest struct {
	Viewer   string `json:"viewer"`
	Password string `json:"password"`
}

type Server struct {
	sess   *session.Session
	auth   *Auth
	width  float64
	height float64

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	close      chan struct{}
}

func New(sess *session.Session, auth *Auth, width, height float64) *Server {
	return &Server{
		sess:       sess,
		auth:       auth,
		width:      width,
		height:     height,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		close:      make(chan struct{}),
	}
}

// Run owns the client set. It exits when Close is called; the session itself
// is torn down by the caller.
func (s *Server) Run() {
	go s.watch()
	for {
		select {
		case client := <-s.register:
			s.clients[client] = true
			// Late joiners get the current figure right away.
			if frame, ok := s.frame(); ok {
				client.trySend(frame)
			}
		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
		case message := <-s.broadcast:
			for client := range s.clients {
				client.trySend(message)
			}
		case <-s.close:
			for client := range s.clients {
				close(client.send)
			}
			return
		}
	}
}

func (s *Server) Close() { close(s.close) }

// watch turns session updates into broadcast frames. Updates coalesce on the
// session side, so a burst of steps produces at most one stale frame.
func (s *Server) watch() {
	for {
		select {
		case <-s.sess.Done():
			return
		case <-s.close:
			return
		case <-s.sess.Updates():
			if frame, ok := s.frame(); ok {
				select {
				case s.broadcast <- frame:
				case <-s.close:
					return
				}
			}
		}
	}
}

func (s *Server) frame() ([]byte, bool) {
	fig, n := s.sess.Latest()
	data, err := json.Marshal(Frame{
		Step:      n,
		Projected: figure.Project(fig, s.sess.Flags, s.width, s.height),
	})
	if err != nil {
		log.Printf("encoding frame: %v", err)
		return nil, false
	}
	return data, true
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/join", s.handleJoin)
	mux.HandleFunc("/ws", s.handleWs)
	return mux
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Viewer == "" {
		req.Viewer = "viewer"
	}
	token, err := s.auth.Join(req.Viewer, req.Password)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(token); err != nil {
		log.Printf("encoding token response: %v", err)
	}
}

func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	claims, err := s.auth.Validate(s.auth.tokenFromRequest(r))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrading connection: %v", err)
		return
	}
	client := newClient(conn, s, claims.Viewer)
	s.register <- client
	go client.writePump()
	go client.readPump()
}

type Client struct {
	Name   string
	conn   *websocket.Conn
	server *Server
	send   chan []byte
}

func newClient(conn *websocket.Conn, server *Server, name string) *Client {
	return &Client{
		Name:   name,
		conn:   conn,
		server: server,
		send:   make(chan []byte, 16),
	}
}

// trySend drops the frame for a client whose buffer is full; the next frame
// supersedes it anyway.
func (c *Client) trySend(message []byte) {
	select {
	case c.send <- message:
	default:
	}
}

// readPump only services pings and detects disconnects; viewers never send
// commands.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("viewer %s: %v", c.Name, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
