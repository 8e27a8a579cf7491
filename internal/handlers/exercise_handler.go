package handlers

import (
	"net/http"
	"strconv"

	"scalecoach/internal/models"
	"scalecoach/internal/service"
)

// ExerciseHandler answers per-exercise questions: best tempo, whether a
// combination has been practiced, and which practice types a scale has seen
type ExerciseHandler struct {
	practiceService *service.PracticeService
}

// NewExerciseHandler creates a new exercise handler
func NewExerciseHandler(practiceService *service.PracticeService) *ExerciseHandler {
	return &ExerciseHandler{practiceService: practiceService}
}

// Query serves GET /api/sessions/exercise
func (h *ExerciseHandler) Query(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	scale := r.URL.Query().Get("scale")

	switch query {
	case "bestBPM":
		practiceType := r.URL.Query().Get("practiceType")
		octaves, err := strconv.Atoi(r.URL.Query().Get("octaves"))
		if scale == "" || practiceType == "" || err != nil {
			respondWithError(w, http.StatusBadRequest, "bestBPM requires scale, practiceType and octaves", "", nil)
			return
		}
		key := models.ExerciseKey{Scale: scale, PracticeType: practiceType, Octaves: octaves}
		respondJSON(w, http.StatusOK, map[string]*int{"bestBPM": h.practiceService.BestBPM(key)})
	case "hasBeenPracticed":
		practiceType := r.URL.Query().Get("practiceType")
		if scale == "" || practiceType == "" {
			respondWithError(w, http.StatusBadRequest, "hasBeenPracticed requires scale and practiceType", "", nil)
			return
		}
		practiced := h.practiceService.HasBeenPracticed(scale, practiceType)
		respondJSON(w, http.StatusOK, map[string]bool{"practiced": practiced})
	case "practicedForScale":
		if scale == "" {
			respondWithError(w, http.StatusBadRequest, "practicedForScale requires scale", "", nil)
			return
		}
		exercises := h.practiceService.PracticedTypesForScale(scale)
		respondJSON(w, http.StatusOK, map[string][]string{"exercises": exercises})
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown query: "+query, "", nil)
	}
}
