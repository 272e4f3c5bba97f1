package health

import (
	"encoding/json"
	"net/http"

	coreHealth "github.com/Sokol111/warehouse-commons/pkg/core/health"
)

type healthHandler struct {
	readiness coreHealth.ReadinessChecker
}

func newHealthHandler(r coreHealth.ReadinessChecker) *healthHandler {
	return &healthHandler{readiness: r}
}

func (h *healthHandler) IsReady(w http.ResponseWriter, r *http.Request) {
	ready := h.readiness.IsReady()
	if ready {
		// The first 200 a probe sees marks the service traffic-ready,
		// workers gated on traffic readiness start after this.
		h.readiness.NotifyKubernetesProbe()
	}

	// Support both simple text and detailed JSON responses
	if r.URL.Query().Get("format") == "json" || r.Header.Get("Accept") == "application/json" {
		h.writeStatus(w, ready)
		return
	}

	// Default simple response for Kubernetes probes
	if ready {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
	}
}

func (h *healthHandler) IsLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}

func (h *healthHandler) writeStatus(w http.ResponseWriter, ready bool) {
	w.Header().Set("Content-Type", "application/json")
	if ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(h.readiness.Status())
}
