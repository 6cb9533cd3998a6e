package instrumentation

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// Server exposes a Recorder's report and active alerts over a small
// read-only HTTP API, the observability surface the source has no
// equivalent of but that a long-running simulator process needs.
type Server struct {
	recorder *Recorder
	router   *mux.Router
}

// NewServer builds a Server backed by recorder. Call Handler to obtain
// an http.Handler to serve, or ListenAndServe to run it directly.
func NewServer(recorder *Recorder) *Server {
	s := &Server{recorder: recorder, router: mux.NewRouter()}
	s.router.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	s.router.HandleFunc("/alerts", s.handleAlerts).Methods(http.MethodGet)
	return s
}

// Handler returns the server's http.Handler for use with an
// http.Server the caller owns.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server on addr until an error occurs.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := s.recorder.GenerateReport()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.recorder.CheckPerformanceAlerts()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Alerts []string `json:"alerts"`
	}{Alerts: alerts})
}
