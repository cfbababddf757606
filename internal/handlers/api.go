package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/abrezinsky/bracketview/internal/bracket"
	"github.com/abrezinsky/bracketview/internal/models"
	"github.com/abrezinsky/bracketview/internal/repository"
	"github.com/abrezinsky/bracketview/internal/services"
)

// SVG side selections
const (
	sideBoth    = "both"
	sideWinners = string(models.SideWinners)
	sideLosers  = string(models.SideLosers)
)

// ==================== Bracket ====================

func (h *Handlers) handleGetBracket(w http.ResponseWriter, r *http.Request) {
	snap := h.Bracket.Snapshot()
	if snap == nil {
		respondError(w, ErrNoBracketData)
		return
	}
	respondOK(w, snap)
}

func (h *Handlers) handleBracketSVG(w http.ResponseWriter, r *http.Request) {
	side := r.URL.Query().Get("side")
	if side == "" {
		side = sideBoth
	}
	if side != sideBoth && side != sideWinners && side != sideLosers {
		respondError(w, BadRequest("Invalid side parameter"))
		return
	}

	var b bracket.Bracket
	if snap := h.Bracket.Snapshot(); snap != nil {
		var err error
		if b, err = snap.Layout(r.URL.Query().Get("pool")); err != nil {
			respondError(w, err)
			return
		}
	}

	var sides []bracket.SideLayout
	if side != sideLosers {
		sides = append(sides, b.Winners)
	}
	if side != sideWinners {
		sides = append(sides, b.Losers)
	}

	var buf bytes.Buffer
	if err := h.Renderer.Render(&buf, sides...); err != nil {
		respondError(w, InternalError(err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *Handlers) handleGetPools(w http.ResponseWriter, r *http.Request) {
	resp := PoolsResponse{PoolIDs: []string{}, Rotation: h.Rotation.State()}
	if snap := h.Bracket.Snapshot(); snap != nil && snap.PoolIDs != nil {
		resp.PoolIDs = snap.PoolIDs
	}
	respondOK(w, resp)
}

// ==================== Refresh ====================

func (h *Handlers) handleRefresh(w http.ResponseWriter, r *http.Request) {
	h.Refresher.Trigger()
	respondAccepted(w, "Refresh requested")
}

func (h *Handlers) handleGetRefreshes(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", 20)
	if err != nil {
		respondError(w, err)
		return
	}
	if limit < 1 || limit > 500 {
		respondError(w, BadRequest("Invalid limit parameter"))
		return
	}

	refreshes, err := h.Bracket.Refreshes(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if refreshes == nil {
		refreshes = []repository.RefreshRecord{}
	}
	respondOK(w, RefreshesResponse{Refreshes: refreshes})
}

// ==================== Overlay, Schedule, Rotation ====================

func (h *Handlers) handleGetOverlay(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Overlay.View())
}

func (h *Handlers) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Schedule.View(time.Now()))
}

func (h *Handlers) handleGetRotation(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Rotation.State())
}

func (h *Handlers) handleAdvancePool(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Rotation.AdvancePool())
}

func (h *Handlers) handleToggleSide(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Rotation.ToggleSide())
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req services.Settings
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.UpdateSettings(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Settings updated")
}

// ==================== Health ====================

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if snap := h.Bracket.Snapshot(); snap != nil {
		resp.Generation = snap.Generation
		resp.Source = string(snap.Source)
	}
	if h.Hub != nil {
		resp.Displays = h.Hub.ClientCount()
	}
	if h.Health != nil {
		if err := h.Health.Ping(r.Context()); err != nil {
			resp.Status = "unavailable"
			resp.Error = err.Error()
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	respondOK(w, resp)
}
