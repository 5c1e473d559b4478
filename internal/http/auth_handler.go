package http

import (
	"net/http"

	"github.com/Chadangdang/BookstoreApp/internal/auth"
)

type AuthHandler struct {
	provider auth.Provider
}

func NewAuthHandler(provider auth.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "missing bearer token")
		return
	}

	if err := h.provider.Revoke(r.Context(), token); err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
