package api

// ElevationResponse is the JSON response for a single node lookup.
type ElevationResponse struct {
	ID        int64 `json:"id"`
	Elevation int16 `json:"elevation"`
}

// BatchRequest is the JSON body for POST /api/v1/elevations.
type BatchRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchResponse lists the ids that have an elevation; Missing holds the
// rest in request order.
type BatchResponse struct {
	Elevations []ElevationResponse `json:"elevations"`
	Missing    []int64             `json:"missing,omitempty"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Kind    string `json:"kind"`
	Entries int    `json:"entries"`
	MaxID   int64  `json:"max_id,omitempty"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
