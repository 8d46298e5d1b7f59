// Package server serves a donut3d chart as an X3D document over HTTP. New data
// is PUT as YAML and reconciled into the same scene, so clients polling the
// document see incremental updates of one persistent chart.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phanxgames/donut3d"
	"github.com/phanxgames/donut3d/metrics"
	"github.com/phanxgames/donut3d/x3d"
)

// ContentType is the media type of X3D XML encoding.
const ContentType = "model/x3d+xml"

// maxBodyBytes bounds PUT /data request bodies.
const maxBodyBytes = 1 << 20

// Server owns one chart and its mirrored document. Handlers serialize access
// to both.
type Server struct {
	mu    sync.Mutex
	chart *donut3d.Chart
	doc   *x3d.Document
	cfg   donut3d.Config

	reg *prometheus.Registry
}

// New creates a server rendering cfg. Nothing animates on the server, so the
// transition duration is forced to zero. When reg is non-nil, backend metrics
// are registered with it and exposed on /metrics.
func New(cfg donut3d.Config, reg *prometheus.Registry) (*Server, error) {
	s := &Server{
		doc: x3d.NewDocument(),
		cfg: cfg.WithTransitionDuration(0),
		reg: reg,
	}
	var backend donut3d.Backend = s.doc
	if reg != nil {
		instrumented, err := metrics.Instrument(s.doc, reg)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		backend = instrumented
	}
	s.chart = donut3d.NewChart(backend)
	if err := s.chart.Render(s.cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the HTTP routes:
//
//	GET /health     liveness probe
//	GET /chart.x3d  current X3D document
//	GET /stats      counters of the last render
//	PUT /data       replace the records (YAML list) and re-render
//	GET /metrics    Prometheus metrics, when a registry was given
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/chart.x3d", s.getDocument)
	r.Get("/stats", s.getStats)
	r.Put("/data", s.putData)
	if s.reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out, err := x3d.Marshal(s.doc)
	s.mu.Unlock()
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		slog.Error("chart.x3d: encode failed", "error", err)
		return
	}
	w.Header().Set("Content-Type", ContentType)
	w.Write(out)
}

// StatsResponse is the body of GET /stats and PUT /data.
type StatsResponse struct {
	Records   int `json:"records"`
	Entered   int `json:"entered"`
	Updated   int `json:"updated"`
	Exited    int `json:"exited"`
	Moved     int `json:"moved"`
	Mutations int `json:"mutations"`
	Elements  int `json:"elements"`
}

func (s *Server) stats() StatsResponse {
	st := s.chart.Stats()
	return StatsResponse{
		Records:   len(s.cfg.Data),
		Entered:   st.Entered,
		Updated:   st.Updated,
		Exited:    st.Exited,
		Moved:     st.Moved,
		Mutations: st.Mutations,
		Elements:  s.doc.Len(),
	}
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.stats()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) putData(w http.ResponseWriter, r *http.Request) {
	records, err := donut3d.LoadRecords(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid records: %v", err), http.StatusBadRequest)
		slog.Warn("data: invalid body", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg.WithData(records)
	if err := s.chart.Render(cfg); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, donut3d.ErrInvalidRecord) || errors.Is(err, donut3d.ErrInvalidColor) || errors.Is(err, donut3d.ErrInvalidConfig) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		slog.Warn("data: render failed", "error", err, "records", len(records))
		return
	}
	s.cfg = cfg
	writeJSON(w, http.StatusOK, s.stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
