package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ishow/feedback-backend/internal/middleware"
	"github.com/ishow/feedback-backend/internal/services"
	"github.com/ishow/feedback-backend/pkg/clientip"
)

type AdminLoginRequest struct {
	Key string `json:"key"`
}

type AdminLoginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token,omitempty"`
}

// AdminLogin compares the submitted key with the admin secret. With Redis configured it
// also issues a session token for the gated admin routes.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch err := h.auth.Check(req.Key); {
	case errors.Is(err, services.ErrMissingKey):
		writeError(w, http.StatusBadRequest, "Missing key")
		return
	case err != nil:
		h.log.WithField("client_ip", clientip.FromRequest(r)).Warn("admin login rejected")
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	resp := AdminLoginResponse{OK: true}
	if h.sessions != nil {
		token, err := h.sessions.Create(r.Context())
		if err != nil {
			h.respondError(w, r, err, serverError)
			return
		}
		resp.Token = token
	}
	writeJSON(w, http.StatusOK, resp)
}

// AdminLogout drops the caller's session token, if any.
func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		if err := h.sessions.Invalidate(r.Context(), middleware.BearerToken(r)); err != nil {
			h.respondError(w, r, err, serverError)
			return
		}
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}
