package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"scalecoach/internal/models"
	"scalecoach/internal/service"
)

// MigrateHandler imports data exported from a client's local cache. Sessions
// go through the plain insert path on purpose: the cache already applied its
// own dedup, and re-deduplicating here would silently drop history.
type MigrateHandler struct {
	practiceService *service.PracticeService
	dailyService    *service.DailyService
}

// NewMigrateHandler creates a new migration handler
func NewMigrateHandler(practice *service.PracticeService, daily *service.DailyService) *MigrateHandler {
	return &MigrateHandler{practiceService: practice, dailyService: daily}
}

// migrateRequest is the POST body for /api/migrate
type migrateRequest struct {
	Sessions      []models.Session       `json:"sessions"`
	DailyPractice []models.DailyPractice `json:"dailyPractice"`
}

// Import serves POST /api/migrate
func (h *MigrateHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req migrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding migration payload", err)
		return
	}

	migratedSessions := 0
	for i := range req.Sessions {
		session := req.Sessions[i]
		session.ID = 0
		if saved := h.practiceService.SaveSession(&session); saved != nil {
			migratedSessions++
		}
	}

	migratedDaily := 0
	for i := range req.DailyPractice {
		record := req.DailyPractice[i]
		record.ID = 0
		if h.dailyService.Save(&record) {
			migratedDaily++
		}
	}

	log.Printf("Migrated %d sessions and %d daily records from client cache", migratedSessions, migratedDaily)
	respondJSON(w, http.StatusOK, map[string]int{
		"migratedSessions":      migratedSessions,
		"migratedDailyPractice": migratedDaily,
	})
}
