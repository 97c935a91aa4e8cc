package dto

// HealthResponse is returned by the liveness and readiness probes
type HealthResponse struct {
	Status   string            `json:"status" example:"ok"`
	Services map[string]string `json:"services,omitempty"`
}

// MessageResponse acknowledges an operation that has no entity to return
type MessageResponse struct {
	Message string `json:"message" example:"student deleted"`
	ID      int64  `json:"id" example:"7"`
}
