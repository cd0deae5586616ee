package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusDisabled     = "disabled"
)

// HealthChecker serves liveness and readiness probes next to /metrics.
// Readiness depends only on the server lifecycle; optional capabilities
// such as analysis and pdf rendering are reported but never fail a probe.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready. sc may be nil.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse reports uptime and the loaded corpus.
type DetailedHealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Threads  int    `json:"threads"`
	Messages int    `json:"messages"`
	Analysis string `json:"analysis"`
	PDF      string `json:"pdf"`
}

// status returns the lifecycle status and whether the server should receive traffic.
func (h *HealthChecker) status() (string, bool) {
	switch {
	case !h.ready.Load():
		return healthStatusNotReady, false
	case h.serverContext != nil && h.serverContext.IsShutdown():
		return healthStatusShuttingDown, false
	default:
		return healthStatusOK, true
	}
}

func (h *HealthChecker) capability(enabled func(*ServerContext) bool) string {
	if h.serverContext == nil || !enabled(h.serverContext) {
		return healthStatusDisabled
	}
	return healthStatusOK
}

func hasAnalyzer(sc *ServerContext) bool    { return sc.Analyzer() != nil }
func hasPDFRenderer(sc *ServerContext) bool { return sc.PDFRenderer() != nil }

func writeHealth(w http.ResponseWriter, ok bool, body any) {
	w.Header().Set("Content-Type", "application/json")
	if ok {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(body)
}

// LivenessHandler serves /healthz. The process is alive as long as it answers.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, true, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, ok := h.status()

		checks := map[string]string{
			"ready":    healthStatusOK,
			"shutdown": healthStatusOK,
			"analysis": h.capability(hasAnalyzer),
			"pdf":      h.capability(hasPDFRenderer),
		}
		switch status {
		case healthStatusNotReady:
			checks["ready"] = healthStatusNotReady
		case healthStatusShuttingDown:
			checks["shutdown"] = healthStatusShuttingDown
		}

		response := HealthResponse{Status: healthStatusOK, Checks: checks}
		if !ok {
			response.Status = healthStatusNotReady
		}
		writeHealth(w, ok, response)
	})
}

// DetailedHealthHandler serves /healthz/detailed with uptime and corpus size.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, ok := h.status()

		response := DetailedHealthResponse{
			Status:   status,
			Uptime:   time.Since(h.startTime).Truncate(time.Second).String(),
			Analysis: h.capability(hasAnalyzer),
			PDF:      h.capability(hasPDFRenderer),
		}
		if h.serverContext != nil {
			response.Threads = len(h.serverContext.Threads())
			response.Messages = len(h.serverContext.Records())
		}
		writeHealth(w, ok, response)
	})
}

// RegisterHealthEndpoints registers /healthz, /readyz and /healthz/detailed on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
