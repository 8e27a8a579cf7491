package handlers

import (
	"encoding/json"
	"net/http"

	"scalecoach/internal/models"
	"scalecoach/internal/security"
	"scalecoach/internal/service"
)

// DailyHandler handles the per-day practice time ledger endpoints
type DailyHandler struct {
	dailyService *service.DailyService
	gate         *security.AdminGate
}

// NewDailyHandler creates a new daily practice handler
func NewDailyHandler(dailyService *service.DailyService, gate *security.AdminGate) *DailyHandler {
	return &DailyHandler{dailyService: dailyService, gate: gate}
}

// dailyActionRequest is the POST body for /api/daily-practice
type dailyActionRequest struct {
	Action string                `json:"action"`
	Record *models.DailyPractice `json:"record"`
}

// Get serves GET /api/daily-practice, optionally filtered by date. A JSON
// null body means no practice has been logged for that day.
func (h *DailyHandler) Get(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	respondJSON(w, http.StatusOK, h.dailyService.Get(date))
}

// Action serves POST /api/daily-practice
func (h *DailyHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req dailyActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding daily action", err)
		return
	}

	switch req.Action {
	case "save":
		if req.Record == nil {
			respondWithError(w, http.StatusBadRequest, "Missing record payload", "", nil)
			return
		}
		if err := validate.Struct(req.Record); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid record: "+err.Error(), "", nil)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": h.dailyService.Save(req.Record)})
	case "clear":
		if !authorizeAdmin(w, r, h.gate) {
			return
		}
		if err := h.dailyService.ClearAll(); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to clear daily practice", "Error clearing daily practice", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown action: "+req.Action, "", nil)
	}
}
