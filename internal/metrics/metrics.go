package metrics

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	SignalsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_generated_total", Help: "Signals handed out"},
		[]string{"asset", "expiration", "direction"},
	)
	SignalsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_rejected_total", Help: "Signal requests refused"},
		[]string{"reason"},
	)
	BoundaryEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "boundary_events_total", Help: "Boundary events published"},
		[]string{"expiration"},
	)
	WSClients = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "ws_clients", Help: "Connected boundary stream clients"},
	)
)

func init() {
	prometheus.MustRegister(SignalsGenerated, SignalsRejected, BoundaryEvents, WSClients)
}

// Router serves /metrics and a liveness check for the ops listener
func Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Serve starts the ops listener in the background
func Serve(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: Router()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).WithField("addr", addr).Error("metrics server stopped")
		}
	}()
	return srv
}
