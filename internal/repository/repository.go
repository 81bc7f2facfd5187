package repository

import (
	"context"
	"errors"

	"github.com/ishow/feedback-backend/internal/models"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200

	feedbackCollection = "feedbacks"
)

// ErrNotFound is returned by Delete when no record has the given id.
// Malformed ids can never match a record and report ErrNotFound as well.
var ErrNotFound = errors.New("feedback not found")

// FeedbackStore persists feedback records. Implementations are safe for concurrent use.
type FeedbackStore interface {
	// Create assigns ID and CreatedAt and writes the record.
	Create(ctx context.Context, f *models.Feedback) error
	// List returns up to limit records, newest first. The limit is clamped with ClampLimit.
	List(ctx context.Context, limit int) ([]models.Feedback, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ClampLimit maps a requested limit onto [1, MaxListLimit]; zero means DefaultListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultListLimit
	case limit < 1:
		return 1
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}
