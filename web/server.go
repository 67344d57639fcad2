// Package web exposes the chat session over a WebSocket endpoint,
// mirroring the CLI loop for browser front-ends.
package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nyxia-labs/mira/runtime"
)

// Event is the wire format in both directions. Client to server:
// {"type":"message","text":...}. Server to client: "reply" for direct
// answers, "thought" for proactive interjections, "stats" for the
// stats snapshot.
type Event struct {
	Type  string         `json:"type"`
	Text  string         `json:"text,omitempty"`
	Stats *runtime.Stats `json:"stats,omitempty"`
}

// Server serves one chat session over HTTP.
type Server struct {
	session  *runtime.Session
	upgrader websocket.Upgrader
}

// NewServer creates a gateway around the session. The model is
// single-session: every connection talks to the same character.
func NewServer(session *runtime.Session) *Server {
	return &Server{
		session: session,
		upgrader: websocket.Upgrader{
			// Local companion app; the front-end runs on another
			// port, so cross-origin upgrades are expected.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// ListenAndServe blocks serving the gateway on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[WEB] Listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.session.Stats(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Printf("[WEB] Stats encode failed: %v", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WEB] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Gorilla allows one concurrent writer; replies and proactive
	// thoughts share the connection.
	var writeMu sync.Mutex
	send := func(ev Event) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("[WEB] Write failed: %v", err)
		}
	}

	proactive := s.session.StartProactive(0, func(thought string) {
		send(Event{Type: "thought", Text: thought})
	})
	defer proactive.Stop()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WEB] Read failed: %v", err)
			}
			return
		}

		switch ev.Type {
		case "message":
			reply := s.session.ProcessInput(context.Background(), ev.Text)
			send(Event{Type: "reply", Text: reply})
		case "stats":
			stats := s.session.Stats(context.Background())
			send(Event{Type: "stats", Stats: &stats})
		default:
			log.Printf("[WEB] Ignoring unknown event type %q", ev.Type)
		}
	}
}
