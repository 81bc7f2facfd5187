package models

import "time"

// Feedback is a persisted piece of user feedback. JSON keys match the documents the
// admin frontend has always read (_id, createdAt).
type Feedback struct {
	ID        string    `json:"_id"`
	Name      *string   `json:"name"`
	Item      *string   `json:"item"`
	Rating    int       `json:"rating"`
	Message   string    `json:"message"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	MinRating        = 1
	MaxRating        = 5
	MinMessageLength = 5
	MaxMessageLength = 2000
)

// FeedbackEvent is pushed to admin dashboards when the collection changes.
type FeedbackEvent struct {
	Type      string    `json:"type"`
	Feedback  *Feedback `json:"feedback,omitempty"`
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventFeedbackCreated = "feedback.created"
	EventFeedbackDeleted = "feedback.deleted"
)
