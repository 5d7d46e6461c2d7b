package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

type snapshotter interface {
	Snapshot() model.Readings
}

type readingStore interface {
	GetLatestReadings(ctx context.Context) (model.Readings, error)
}

type server struct {
	poller   snapshotter
	store    readingStore
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// New builds the status server. store may be nil when no database is configured.
func New(poller snapshotter, store readingStore, gatherer prometheus.Gatherer) *server {
	return &server{
		poller:   poller,
		store:    store,
		gatherer: gatherer,
		logger:   zap.L(),
	}
}

func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sensors", s.GetSensors)
	mux.HandleFunc("GET /readings/latest", s.GetLatestReadings)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return LoggingMiddleware(mux)
}

// GetSensors returns the readings of the last poll.
func (s *server) GetSensors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.poller.Snapshot())
}

// GetLatestReadings returns the newest stored reading of every sensor.
func (s *server) GetLatestReadings(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "no database configured", http.StatusNotFound)
		return
	}
	readings, err := s.store.GetLatestReadings(r.Context())
	if err != nil {
		s.logger.Error("failed to load latest readings", zap.Error(err))
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readings)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func handleError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(err.Error()))
}
