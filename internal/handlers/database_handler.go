package handlers

import (
	"encoding/json"
	"net/http"

	"scalecoach/internal/service"
)

// DatabaseHandler handles whole-database maintenance operations
type DatabaseHandler struct {
	practiceService *service.PracticeService
	dailyService    *service.DailyService
	scaleService    *service.ScaleService
}

// NewDatabaseHandler creates a new database maintenance handler
func NewDatabaseHandler(practice *service.PracticeService, daily *service.DailyService, scales *service.ScaleService) *DatabaseHandler {
	return &DatabaseHandler{
		practiceService: practice,
		dailyService:    daily,
		scaleService:    scales,
	}
}

// Action serves POST /api/database. clearAll wipes every collection and then
// reseeds the default scales so the app never restarts with an empty picker.
func (h *DatabaseHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding database action", err)
		return
	}

	if req.Action != "clearAll" {
		respondWithError(w, http.StatusBadRequest, "Unknown action: "+req.Action, "", nil)
		return
	}

	if err := h.practiceService.ClearAll(); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to clear sessions", "Error clearing sessions", err)
		return
	}
	if err := h.dailyService.ClearAll(); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to clear daily practice", "Error clearing daily practice", err)
		return
	}
	if err := h.scaleService.ClearAll(); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to clear scales", "Error clearing scales", err)
		return
	}

	defaults, err := h.scaleService.SeedDefaults()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to reseed default scales", "Error reseeding defaults", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"defaultScales": defaults,
	})
}
