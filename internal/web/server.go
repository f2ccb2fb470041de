// Package web provides an HTTP status server for the thermostat daemon.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/thermostat/internal/status"
	"github.com/sweeney/thermostat/internal/store"
)

// historyRows caps how many rows the history endpoint returns per table.
const historyRows = 60

// HistorySource provides recent persisted rows for the history endpoint.
// *store.Store implements it.
type HistorySource interface {
	RecentCycles(n int) ([]store.Cycle, error)
	RecentEvents(n int) ([]store.Event, error)
}

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	history    HistorySource
}

// New creates a Server that reads state from the given tracker. history
// may be nil, in which case the history endpoint serves empty lists.
// gatherer may be nil to disable the metrics endpoint.
func New(addr string, tracker *status.Tracker, history HistorySource, gatherer prometheus.Gatherer) *Server {
	s := &Server{tracker: tracker, history: history}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/history.json", s.handleHistory)
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	var (
		cycles []store.Cycle
		events []store.Event
		err    error
	)
	if s.history != nil {
		if cycles, err = s.history.RecentCycles(historyRows); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if events, err = s.history.RecentEvents(historyRows); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatHistory(cycles, events))
}
