package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ishow/feedback-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// formOverhead is the room left for text fields and multipart framing on top of the image cap.
const formOverhead = 64 << 10

type Deps struct {
	Feedback       *services.FeedbackService
	Auth           *services.AdminAuth
	Sessions       *services.AdminSessions // nil without Redis
	Feed           *services.FeedbackFeed
	MaxUploadBytes int64
	Log            logrus.FieldLogger
}

type Handler struct {
	feedback       *services.FeedbackService
	auth           *services.AdminAuth
	sessions       *services.AdminSessions
	feed           *services.FeedbackFeed
	maxUploadBytes int64
	log            logrus.FieldLogger
}

func New(d Deps) *Handler {
	return &Handler{
		feedback:       d.Feedback,
		auth:           d.Auth,
		sessions:       d.Sessions,
		feed:           d.Feed,
		maxUploadBytes: d.MaxUploadBytes,
		log:            d.Log,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// respondError maps pipeline errors onto status codes. Only validation messages reach the
// client; everything else is logged and answered with fallback.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	entry := h.log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	})
	var uploadErr *services.UploadError
	var storeErr *services.StoreError
	switch {
	case errors.As(err, &uploadErr):
		entry.Error("image upload failed")
	case errors.As(err, &storeErr):
		entry.WithField("op", storeErr.Op).Error("feedback store failed")
	default:
		entry.Error("request failed")
	}
	writeError(w, http.StatusInternalServerError, fallback)
}
