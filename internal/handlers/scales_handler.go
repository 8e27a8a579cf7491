package handlers

import (
	"encoding/json"
	"net/http"

	"scalecoach/internal/models"
	"scalecoach/internal/security"
	"scalecoach/internal/service"
)

// ScalesHandler handles the user's scale collection endpoints
type ScalesHandler struct {
	scaleService *service.ScaleService
	gate         *security.AdminGate
}

// NewScalesHandler creates a new scales handler
func NewScalesHandler(scaleService *service.ScaleService, gate *security.AdminGate) *ScalesHandler {
	return &ScalesHandler{scaleService: scaleService, gate: gate}
}

// scaleActionRequest is the POST body for /api/scales
type scaleActionRequest struct {
	Action string        `json:"action"`
	Scale  *models.Scale `json:"scale"`
	ID     int64         `json:"id"`
}

// GetCollection serves GET /api/scales
func (h *ScalesHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.scaleService.List())
}

// Action serves POST /api/scales
func (h *ScalesHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req scaleActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding scale action", err)
		return
	}

	switch req.Action {
	case "addScale":
		h.addScale(w, req.Scale)
	case "removeScale":
		h.removeScale(w, req.ID)
	case "initializeDefaults":
		scales, err := h.scaleService.SeedDefaults()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to initialize default scales", "Error seeding defaults", err)
			return
		}
		respondJSON(w, http.StatusOK, scales)
	case "resetToDefaults":
		if !authorizeAdmin(w, r, h.gate) {
			return
		}
		scales, err := h.scaleService.ResetToDefaults()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to reset scales", "Error resetting scales", err)
			return
		}
		respondJSON(w, http.StatusOK, scales)
	case "clearAll":
		if !authorizeAdmin(w, r, h.gate) {
			return
		}
		if err := h.scaleService.ClearAll(); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to clear scales", "Error clearing scales", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown action: "+req.Action, "", nil)
	}
}

func (h *ScalesHandler) addScale(w http.ResponseWriter, scale *models.Scale) {
	if scale == nil || scale.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Missing scale name", "", nil)
		return
	}

	added, err := h.scaleService.Add(scale)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to add scale", "Error adding scale", err)
		return
	}
	if added == nil {
		respondWithError(w, http.StatusConflict, "Scale is already in your collection", "", nil)
		return
	}

	respondJSON(w, http.StatusOK, added)
}

func (h *ScalesHandler) removeScale(w http.ResponseWriter, id int64) {
	if id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Missing scale id", "", nil)
		return
	}

	removed, err := h.scaleService.Remove(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to remove scale", "Error removing scale", err)
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, "Scale not found", "", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
