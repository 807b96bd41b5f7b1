// Package frontend serves the received notifications over HTTP.
package frontend

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mwuertinger/nest-events/pkg/config"
	"github.com/mwuertinger/nest-events/pkg/persistence"
	"github.com/pkg/errors"
)

type Server struct {
	store *persistence.Store
	hub   *Hub
	srv   *http.Server
}

func New(store *persistence.Store, hub *Hub) *Server {
	return &Server{store: store, hub: hub}
}

// Handler returns the router of the API.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/devices", s.devicesHandler).Methods("GET")
	r.HandleFunc("/api/devices/{device:.+}", s.deviceHandler).Methods("GET")
	r.HandleFunc("/api/events/{type}", s.eventHandler).Methods("GET")
	r.HandleFunc("/api/stream", s.hub.ServeHTTP).Methods("GET")
	return r
}

// Start starts the HTTP server listening on listenAddress in the format address:port. The function returns immediately
// and calls log.Fatal() should an error occur.
func (s *Server) Start(httpConfig config.Http) error {
	if s.srv != nil {
		return errors.New("already started")
	}

	s.srv = &http.Server{
		Handler:     s.Handler(),
		Addr:        httpConfig.ListenAddress,
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		err := s.srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server: %v", err)
		}
	}()

	return nil
}

// Shutdown the server waiting at most 5 seconds for in-flight connections to terminate.
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}
	s.hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) devicesHandler(w http.ResponseWriter, r *http.Request) {
	devices := s.store.Devices()
	if devices == nil {
		devices = []string{}
	}
	writeJSON(w, devices)
}

func (s *Server) deviceHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["device"]
	summary, ok := s.store.Device(name)
	if !ok {
		log.Printf("device not found: %s", name)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, summary)
}

func (s *Server) eventHandler(w http.ResponseWriter, r *http.Request) {
	typ := mux.Vars(r)["type"]
	summary, ok := s.store.LastEvent(typ)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("unable to encode response: %v", err)
	}
}
