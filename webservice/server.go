// Package webservice serves the live state of a dining table over HTTP and
// streams its events over a websocket.
package webservice

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/nickng/dinephil/fairness"
	"github.com/nickng/dinephil/observer"
	"golang.org/x/net/websocket"
)

type Server struct {
	Logger *log.Logger

	listener net.Listener
	iface    string
	port     string

	size     int
	snapshot *observer.Snapshot
	fair     *fairness.Accumulator // nil disables /fairness
	hub      *Hub
	mux      *http.ServeMux

	listenerMtx sync.Mutex
}

// NewServer creates a server for a table of size n. The snapshot, fairness
// accumulator and hub must be observing the table.
func NewServer(iface string, port string, n int, snapshot *observer.Snapshot, fair *fairness.Accumulator, hub *Hub) *Server {
	s := &Server{
		Logger:   log.New(io.Discard, "webservice: ", log.LstdFlags),
		iface:    iface,
		port:     port,
		size:     n,
		snapshot: snapshot,
		fair:     fair,
		hub:      hub,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.indexHandler)
	s.mux.HandleFunc("/state", s.stateHandler)
	s.mux.HandleFunc("/dot", s.dotHandler)
	s.mux.HandleFunc("/cfsm", s.cfsmHandler)
	s.mux.HandleFunc("/fairness", s.fairnessHandler)
	s.mux.Handle("/events", websocket.Handler(s.eventsHandler))
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves until the listener is closed.
func (s *Server) Start() error {
	l, err := s.Listener()
	if err != nil {
		return err
	}
	s.Logger.Printf("Listening at %s", s.URL())
	if err := (&http.Server{Handler: s.mux}).Serve(l); err != nil && !isClosed(err) {
		return err
	}
	return nil
}

func (s *Server) Close() error {
	l, err := s.Listener()
	if err != nil {
		return err
	}
	return l.Close()
}

func (s *Server) URL() string {
	l, err := s.Listener()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("http://%s/", l.Addr())
}

func (s *Server) Listener() (net.Listener, error) {
	s.listenerMtx.Lock()
	defer s.listenerMtx.Unlock()

	if s.listener != nil {
		return s.listener, nil
	}

	listener, err := net.Listen("tcp4", net.JoinHostPort(s.iface, s.port))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s.listener = listener
	return s.listener, nil
}

func isClosed(err error) bool {
	return errors.Is(err, http.ErrServerClosed) || errors.Is(err, net.ErrClosed)
}
