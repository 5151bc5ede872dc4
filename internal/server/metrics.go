package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tartampluch/go-agecalc/internal/config"
)

type metrics struct {
	requests     *prometheus.CounterVec
	extractions  *prometheus.CounterVec
	calculations *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: config.MetricRequests, Help: config.MetricRequestsHelp},
			[]string{config.LabelMethod, config.LabelRoute, config.LabelStatus},
		),
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: config.MetricExtractions, Help: config.MetricExtractHelp},
			[]string{config.LabelFound},
		),
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: config.MetricCalculations, Help: config.MetricCalcHelp},
			[]string{config.LabelOutcome},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.extractions, m.calculations} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrMetricsRegister, err)
		}
	}
	return m, nil
}

// middleware counts requests by route pattern, so /api/adulthood/2006 and
// /api/adulthood/1990 share one series. Paths no route matched share the
// "unmatched" series. Scrapes of /metrics are not counted.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == config.RouteMetrics {
			next.ServeHTTP(w, r)
			return
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := config.RouteUnmatched
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
