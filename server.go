package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/werewolf/history"
)

// HTTPServer wires HTTP routes to the channel manager.
type HTTPServer struct {
	mgr      *Manager
	store    *history.Store
	upgrader websocket.Upgrader
}

func NewHTTPServer(mgr *Manager, store *history.Store) *HTTPServer {
	return &HTTPServer{
		mgr:   mgr,
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router exposes the HTTP mux used for both the relay listener and the
// optional local serve.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/ws", s.handleWebSocket)
	r.Get("/games", s.handleGames)
	return r
}

func (s *HTTPServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	channelName := r.URL.Query().Get("channel")
	user := r.URL.Query().Get("user")
	if channelName == "" || user == "" {
		http.Error(w, "missing channel or user", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("upgrade websocket")
		return
	}

	client := NewClient(user, conn, s.mgr)
	if err := s.mgr.Attach(channelName, client); err != nil {
		_ = conn.Close()
		log.Warn().Err(err).Str("channel", channelName).Str("user", user).Msg("attach failed")
		return
	}

	go client.writeLoop()
	client.readLoop()
}

func (s *HTTPServer) handleGames(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.Recent(50)
	if err != nil {
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}
