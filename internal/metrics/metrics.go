// Package metrics publishes loop latency and frame timing through expvar.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/zserge/metric"

	"github.com/erinpentecost/timingtest"
)

// Server collects and publishes metrics.
type Server struct {
	renderLatency   metric.Metric
	simulateLatency metric.Metric
	lastDelta       metric.Metric
	highestDelta    metric.Metric
	angle           metric.Metric
	ticks           metric.Metric
	log             zerolog.Logger
	lastTicks       uint64
	mu              sync.Mutex
}

// Names the metrics are exposed under, in /debug/metrics and expvar.
var metricNames = []string{
	"RenderLatencyMs",
	"SimulateLatencyMs",
	"LastDeltaMs",
	"HighestDeltaMs",
	"AngleDegrees",
	"Ticks",
}

var (
	publishOnce sync.Once
	// serving is the Server whose metrics expvar reports: the one that
	// most recently started serving.
	serving atomic.Pointer[Server]
)

// NewServer creates the gauges.
func NewServer(log zerolog.Logger) *Server {
	return &Server{
		renderLatency:   metric.NewGauge("5m5s"),
		simulateLatency: metric.NewGauge("5m5s"),
		lastDelta:       metric.NewGauge("5m5s"),
		highestDelta:    metric.NewGauge("5m5s"),
		angle:           metric.NewGauge("5m5s"),
		ticks:           metric.NewCounter("5m5s"),
		log:             log,
	}
}

// Metrics returns this server's metrics by name.
func (m *Server) Metrics() map[string]metric.Metric {
	return map[string]metric.Metric{
		"RenderLatencyMs":   m.renderLatency,
		"SimulateLatencyMs": m.simulateLatency,
		"LastDeltaMs":       m.lastDelta,
		"HighestDeltaMs":    m.highestDelta,
		"AngleDegrees":      m.angle,
		"Ticks":             m.ticks,
	}
}

// Handler serves this server's metrics.
func (m *Server) Handler() http.Handler {
	return metric.Handler(m.Metrics)
}

// publishExpvar registers every name once per process. Each var reads
// the currently serving Server, so a later Server is not shadowed by an
// earlier one.
func publishExpvar() {
	for _, name := range metricNames {
		name := name
		expvar.Publish(name, expvar.Func(func() interface{} {
			s := serving.Load()
			if s == nil {
				return nil
			}
			return json.RawMessage(s.Metrics()[name].String())
		}))
	}
}

// Serve starts an http server on addr and shuts it down when done closes.
// It returns the address actually bound.
func (m *Server) Serve(addr string, done <-chan interface{}) (string, error) {
	publishOnce.Do(publishExpvar)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	serving.Store(m)
	mux := http.NewServeMux()
	mux.Handle("/debug/metrics", m.Handler())
	mux.Handle("/debug/vars", expvar.Handler())
	server := &http.Server{Handler: mux}

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	// Wait for cancellation and then shutdown http
	go func() {
		<-done
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			m.log.Warn().Err(err).Msg("metrics server shutdown")
		}
	}()

	m.log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	return ln.Addr().String(), nil
}

// Publish takes in a heartbeat sample.
func (m *Server) Publish(sample timingtest.LatencySample) {
	m.renderLatency.Add(toMs(sample.RenderLatency))
	m.simulateLatency.Add(toMs(sample.SimulateLatency))
}

// Observe takes in a snapshot. Ticks are counted once, however often the
// same snapshot is observed.
func (m *Server) Observe(s timingtest.Snapshot) {
	m.lastDelta.Add(s.Last * 1000)
	m.highestDelta.Add(s.Highest * 1000)
	m.angle.Add(s.Degrees)

	m.mu.Lock()
	newTicks := s.Ticks - m.lastTicks
	if s.Ticks < m.lastTicks {
		newTicks = 0
	}
	m.lastTicks = s.Ticks
	m.mu.Unlock()
	if newTicks > 0 {
		m.ticks.Add(float64(newTicks))
	}
}

// String dumps the gauges, mostly for logging.
func (m *Server) String() string {
	return "render=" + m.renderLatency.String() +
		" simulate=" + m.simulateLatency.String() +
		" last=" + m.lastDelta.String() +
		" highest=" + m.highestDelta.String() +
		" angle=" + m.angle.String()
}

func toMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
