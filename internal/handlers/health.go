package handlers

import (
	"net/http"

	"github.com/stashkeep/stash-api/internal/httpx"
	"github.com/stashkeep/stash-api/internal/version"
)

// HealthResponse reports liveness and the running build.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.Version,
	})
}
