package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"scalecoach/internal/security"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	gate *security.AdminGate
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(gate *security.AdminGate) *Middleware {
	return &Middleware{gate: gate}
}

// RequireAdmin guards destructive endpoints behind a bearer token. It passes
// everything through when no admin password hash is configured.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.gate.Enabled() {
			next(w, r)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if err := m.gate.Validate(token); err != nil {
			respondWithError(w, http.StatusUnauthorized, "Admin token required", "", nil)
			return
		}

		next(w, r)
	}
}

// authorizeAdmin checks the bearer token for a destructive action reached
// through a shared route. Writes the 401 itself and returns false on failure.
func authorizeAdmin(w http.ResponseWriter, r *http.Request, gate *security.AdminGate) bool {
	if !gate.Enabled() {
		return true
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := gate.Validate(token); err != nil {
		respondWithError(w, http.StatusUnauthorized, "Admin token required", "", nil)
		return false
	}
	return true
}

// Logging middleware logs HTTP requests, including the client's correlation
// id when one was sent
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
			log.Printf("%s %s %s [%s]", r.Method, r.URL.Path, time.Since(start), requestID)
			return
		}
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
