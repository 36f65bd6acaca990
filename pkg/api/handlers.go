package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/azybler/osm_elevation/pkg/elevation"
)

// MaxBatchIDs bounds the ids of one batch request.
const MaxBatchIDs = 1000

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	lookup  elevation.Lookup
	stats   StatsResponse
	lookups *prometheus.CounterVec
}

// NewHandlers creates handlers serving lookup. Lookup counts are
// registered with reg when it is non-nil.
func NewHandlers(lookup elevation.Lookup, stats StatsResponse, reg prometheus.Registerer) *Handlers {
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "osm_elevation_lookups_total",
		Help: "Node elevation lookups by result",
	}, []string{"result"})
	if reg != nil {
		reg.MustRegister(lookups)
	}
	return &Handlers{
		lookup:  lookup,
		stats:   stats,
		lookups: lookups,
	}
}

// StatsFor describes a persisted index.
func StatsFor(idx elevation.Index) StatsResponse {
	switch v := idx.(type) {
	case *elevation.Dense:
		return StatsResponse{Kind: "dense", Entries: v.Len(), MaxID: int64(v.MaxID())}
	case *elevation.Sparse:
		return StatsResponse{Kind: "sparse", Entries: v.Len()}
	}
	return StatsResponse{Kind: "unknown", Entries: idx.Len()}
}

func (h *Handlers) get(id int64) (int16, bool) {
	elev := h.lookup.Get(osm.NodeID(id))
	if !elevation.Valid(elev) {
		h.lookups.WithLabelValues("miss").Inc()
		return elev, false
	}
	h.lookups.WithLabelValues("hit").Inc()
	return elev, true
}

// HandleElevation handles GET /api/v1/elevation/{id}.
func (h *Handlers) HandleElevation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "id")
		return
	}

	elev, ok := h.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ElevationResponse{ID: id, Elevation: elev})
}

// HandleBatch handles POST /api/v1/elevations.
func (h *Handlers) HandleBatch(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if len(req.IDs) == 0 || len(req.IDs) > MaxBatchIDs {
		writeError(w, http.StatusBadRequest, "invalid_request", "ids")
		return
	}

	resp := BatchResponse{Elevations: make([]ElevationResponse, 0, len(req.IDs))}
	for _, id := range req.IDs {
		if id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_id", "ids")
			return
		}
		if elev, ok := h.get(id); ok {
			resp.Elevations = append(resp.Elevations, ElevationResponse{ID: id, Elevation: elev})
		} else {
			resp.Missing = append(resp.Missing, id)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
