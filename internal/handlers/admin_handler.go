package handlers

import (
	"encoding/json"
	"net/http"

	"scalecoach/internal/security"
)

// AdminHandler issues tokens for the destructive endpoints
type AdminHandler struct {
	gate *security.AdminGate
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(gate *security.AdminGate) *AdminHandler {
	return &AdminHandler{gate: gate}
}

// Login serves POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding login request", err)
		return
	}

	token, err := h.gate.Login(req.Password)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid password", "Admin login failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
