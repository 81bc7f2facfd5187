package handlers

import (
	"context"
	"net/http"
	"time"
)

type RootResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{OK: true, Message: "ISHOW feedback API"})
}

// Health answers plain "OK" while the feedback store is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.feedback.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("health check: store unreachable")
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}
