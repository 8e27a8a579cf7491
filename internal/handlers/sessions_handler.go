package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"scalecoach/internal/models"
	"scalecoach/internal/security"
	"scalecoach/internal/service"
)

// validate checks incoming payloads against the struct tags in models
var validate = validator.New()

// SessionsHandler handles practice session HTTP requests
type SessionsHandler struct {
	practiceService *service.PracticeService
	gate            *security.AdminGate
}

// NewSessionsHandler creates a new sessions handler
func NewSessionsHandler(practiceService *service.PracticeService, gate *security.AdminGate) *SessionsHandler {
	return &SessionsHandler{practiceService: practiceService, gate: gate}
}

// sessionActionRequest is the POST body for /api/sessions
type sessionActionRequest struct {
	Action  string          `json:"action"`
	Session *models.Session `json:"session"`
}

// Query serves the read side of /api/sessions. The query parameter selects
// the view; without one the ten most recent sessions are returned.
func (h *SessionsHandler) Query(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	switch query {
	case "", "recent":
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		respondJSON(w, http.StatusOK, h.practiceService.RecentSessions(limit))
	case "all":
		respondJSON(w, http.StatusOK, h.practiceService.AllSessions())
	case "forScale":
		scale := r.URL.Query().Get("scale")
		if scale == "" {
			respondWithError(w, http.StatusBadRequest, "Missing scale parameter", "", nil)
			return
		}
		respondJSON(w, http.StatusOK, h.practiceService.SessionsForScale(scale))
	case "lastForScale":
		scale := r.URL.Query().Get("scale")
		if scale == "" {
			respondWithError(w, http.StatusBadRequest, "Missing scale parameter", "", nil)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		respondJSON(w, http.StatusOK, h.practiceService.LastSessionsForScale(scale, limit))
	case "stats":
		respondJSON(w, http.StatusOK, h.practiceService.Stats())
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown query: "+query, "", nil)
	}
}

// Action serves the write side of /api/sessions
func (h *SessionsHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req sessionActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding session action", err)
		return
	}

	switch req.Action {
	case "save", "saveUnique":
		if req.Session == nil {
			respondWithError(w, http.StatusBadRequest, "Missing session payload", "", nil)
			return
		}
		if err := validate.Struct(req.Session); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid session: "+err.Error(), "", nil)
			return
		}

		var saved *models.Session
		if req.Action == "save" {
			saved = h.practiceService.SaveSession(req.Session)
		} else {
			saved = h.practiceService.SaveUniqueSession(req.Session)
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"session": saved})
	case "clear":
		if !authorizeAdmin(w, r, h.gate) {
			return
		}
		if err := h.practiceService.ClearAll(); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to clear sessions", "Error clearing sessions", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown action: "+req.Action, "", nil)
	}
}
