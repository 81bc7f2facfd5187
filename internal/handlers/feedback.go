package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ishow/feedback-backend/internal/models"
	"github.com/ishow/feedback-backend/internal/repository"
	"github.com/ishow/feedback-backend/internal/services"
)

const serverError = "Server error"

var (
	errBodyTooLarge = errors.New("request body too large")
	errBadBody      = errors.New("invalid request body")
)

type SubmitFeedbackResponse struct {
	OK         bool   `json:"ok"`
	FeedbackID string `json:"feedbackId"`
}

type ListFeedbacksResponse struct {
	OK    bool              `json:"ok"`
	Count int               `json:"count"`
	Rows  []models.Feedback `json:"rows"`
}

// feedbackJSON is the JSON form of a submission. rating may be a number or a string.
type feedbackJSON struct {
	Name    string          `json:"name"`
	Item    string          `json:"item"`
	Rating  json.RawMessage `json:"rating"`
	Message string          `json:"message"`
}

// SubmitFeedback accepts multipart/form-data (with an optional "image" file) or JSON.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+formOverhead)

	in, err := h.decodeSubmission(r)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if int64(len(in.Image)) > h.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	feedback, err := h.feedback.Submit(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err, serverError)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitFeedbackResponse{OK: true, FeedbackID: feedback.ID})
}

func (h *Handler) decodeSubmission(r *http.Request) (services.SubmissionInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var body feedbackJSON
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return services.SubmissionInput{}, classifyBodyError(err)
		}
		return services.SubmissionInput{
			Name:    body.Name,
			Item:    body.Item,
			Rating:  ratingText(body.Rating),
			Message: body.Message,
		}, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return services.SubmissionInput{}, classifyBodyError(err)
		}
		defer r.MultipartForm.RemoveAll()

		in := formSubmission(r)
		file, _, err := r.FormFile("image")
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil
		}
		if err != nil {
			return services.SubmissionInput{}, errBadBody
		}
		defer file.Close()

		if in.Image, err = io.ReadAll(file); err != nil {
			return services.SubmissionInput{}, classifyBodyError(err)
		}
		return in, nil

	default:
		if err := r.ParseForm(); err != nil {
			return services.SubmissionInput{}, classifyBodyError(err)
		}
		return formSubmission(r), nil
	}
}

func formSubmission(r *http.Request) services.SubmissionInput {
	return services.SubmissionInput{
		Name:    r.FormValue("name"),
		Item:    r.FormValue("item"),
		Rating:  r.FormValue("rating"),
		Message: r.FormValue("message"),
	}
}

func classifyBodyError(err error) error {
	var maxErr *http.MaxBytesError
	// multipart wraps the reader error without %w on some paths
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return errBodyTooLarge
	}
	return errBadBody
}

// ratingText turns a JSON rating (number, string or null) into the text the pipeline parses.
func ratingText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return string(raw)
}

// ListFeedbacks returns the newest feedback first.
func (h *Handler) ListFeedbacks(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	rows, err := h.feedback.List(r.Context(), limit)
	if err != nil {
		h.respondError(w, r, err, serverError)
		return
	}
	if rows == nil {
		rows = []models.Feedback{}
	}

	writeJSON(w, http.StatusOK, ListFeedbacksResponse{
		OK:    true,
		Count: len(rows),
		Rows:  rows,
	})
}

// parseLimit reads ?limit=. Missing, non-numeric and zero values give 0, which the store
// treats as the default; fractions are truncated.
func parseLimit(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	switch {
	case f > repository.MaxListLimit:
		return repository.MaxListLimit
	case f < -1:
		return -1
	}
	return int(f)
}

// DeleteFeedback removes one record. Deleting an unknown id still answers ok.
func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.feedback.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err, "Delete failed")
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}
