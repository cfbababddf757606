package handlers

import (
	"github.com/abrezinsky/bracketview/internal/models"
	"github.com/abrezinsky/bracketview/internal/repository"
)

// PoolsResponse lists the pools of the current snapshot and the rotation cursor
type PoolsResponse struct {
	PoolIDs  []string             `json:"pool_ids"`
	Rotation models.RotationState `json:"rotation"`
}

// RefreshesResponse is the refresh history
type RefreshesResponse struct {
	Refreshes []repository.RefreshRecord `json:"refreshes"`
}

// HealthResponse reports service health
type HealthResponse struct {
	Status     string `json:"status"`
	Generation uint64 `json:"generation"`
	Source     string `json:"source,omitempty"`
	Displays   int    `json:"displays"`
	Error      string `json:"error,omitempty"`
}

