package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Garsondee/trolley-sense/internal/game"
)

// maxBody caps request bodies.
const maxBody = 64 << 10

// Server exposes the difficulty store over HTTP and sessions over websocket.
type Server struct {
	store *ConfigStore
	hub   *Hub
}

// NewServer binds a store and a running hub.
func NewServer(store *ConfigStore, hub *Hub) *Server {
	return &Server{store: store, hub: hub}
}

// Routes returns the HTTP handler of the server.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/difficulty", s.handleDifficulty)
	mux.HandleFunc("/api/difficulty/adjust", s.handleAdjust)
	mux.HandleFunc("/api/difficulty/reset", s.handleReset)
	mux.HandleFunc("/ws", s.ServeWs)
	return corsMiddleware(mux)
}

// handleDifficulty exports the snapshot on GET and imports one on PUT.
func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeSnapshot(w)

	case http.MethodPut:
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if err := s.store.Import(data); err != nil {
			if errors.Is(err, game.ErrConfigParse) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.configChanged()
		s.writeSnapshot(w)

	default:
		w.Header().Set("Allow", "GET, PUT")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleAdjust merges a partial update and returns the clamped config.
func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var adj game.DifficultyAdjustment
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&adj); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	s.store.Adjust(adj)
	s.configChanged()
	s.writeSnapshot(w)
}

// handleReset restores the default difficulty.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	s.store.Reset()
	s.configChanged()
	s.writeSnapshot(w)
}

func (s *Server) writeSnapshot(w http.ResponseWriter) {
	blob, err := s.store.Export()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(blob)
}

// configChanged tells every connected client about the new defaults.
func (s *Server) configChanged() {
	blob, err := s.store.Export()
	if err != nil {
		log.Printf("api: export difficulty: %v", err)
		return
	}
	s.hub.Publish(Message{Type: MsgConfigChanged, Payload: json.RawMessage(blob)})
}

// Reload swaps in a new tuning and notifies clients.
func (s *Server) Reload(t game.Tuning) {
	s.store.Replace(t)
	s.configChanged()
}

// corsMiddleware lets a browser client on another origin talk to the server.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
