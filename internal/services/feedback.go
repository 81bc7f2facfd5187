package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/ishow/feedback-backend/internal/models"
	"github.com/ishow/feedback-backend/internal/repository"
	"github.com/sirupsen/logrus"
)

const (
	msgRatingRange  = "rating must be 1-5"
	msgMessageShort = "message must be at least 5 characters"
	msgMessageLong  = "message must be at most 2000 characters"
	msgImageType    = "image must be an image file"
)

// SubmissionInput is a feedback submission as received from a client.
// Rating holds the raw text form; Image is nil when no file was attached.
type SubmissionInput struct {
	Name    string
	Item    string
	Rating  string
	Message string
	Image   []byte
}

// feedbackRules is checked after rating coercion and message trimming.
// validator counts string length in runes.
type feedbackRules struct {
	Rating  int    `validate:"min=1,max=5"`
	Message string `validate:"min=5,max=2000"`
}

// EventPublisher receives change notifications for admin dashboards.
type EventPublisher interface {
	Publish(ctx context.Context, event models.FeedbackEvent) error
}

type FeedbackService struct {
	store    repository.FeedbackStore
	uploader Uploader
	events   EventPublisher
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewFeedbackService wires the pipeline. uploader and events may be nil: submissions
// carrying an image then fail with ErrUploadsDisabled, and no events are published.
func NewFeedbackService(store repository.FeedbackStore, uploader Uploader, events EventPublisher, log logrus.FieldLogger) *FeedbackService {
	return &FeedbackService{
		store:    store,
		uploader: uploader,
		events:   events,
		validate: validator.New(),
		log:      log,
	}
}

// Submit validates the input, uploads the image if there is one and persists the record.
// Nothing is retried. If the upload succeeds and the store write fails, the uploaded
// image is left behind in Cloudinary.
func (s *FeedbackService) Submit(ctx context.Context, in SubmissionInput) (*models.Feedback, error) {
	rating, err := parseRating(in.Rating)
	if err != nil {
		return nil, err
	}
	message := strings.TrimSpace(in.Message)
	if err := s.checkRules(feedbackRules{Rating: rating, Message: message}); err != nil {
		return nil, err
	}

	var imageURL *string
	if len(in.Image) > 0 {
		if mtype := mimetype.Detect(in.Image); !strings.HasPrefix(mtype.String(), "image/") {
			return nil, &ValidationError{Field: "image", Message: msgImageType}
		}
		if s.uploader == nil {
			return nil, &UploadError{Err: ErrUploadsDisabled}
		}

		started := time.Now()
		url, err := s.uploader.Upload(ctx, in.Image)
		if err != nil {
			return nil, &UploadError{Err: err}
		}
		s.log.WithFields(logrus.Fields{
			"bytes":   len(in.Image),
			"latency": time.Since(started).String(),
		}).Debug("image uploaded")
		imageURL = &url
	}

	feedback := &models.Feedback{
		Name:     optional(in.Name),
		Item:     optional(in.Item),
		Rating:   rating,
		Message:  message,
		ImageURL: imageURL,
	}
	if err := s.store.Create(ctx, feedback); err != nil {
		if imageURL != nil {
			s.log.WithField("image_url", *imageURL).Warn("store write failed after upload; image is orphaned")
		}
		return nil, &StoreError{Op: "create", Err: err}
	}

	s.publish(ctx, models.FeedbackEvent{
		Type:      models.EventFeedbackCreated,
		Feedback:  feedback,
		Timestamp: feedback.CreatedAt,
	})
	return feedback, nil
}

// List returns the newest records first; limit is clamped by the store.
func (s *FeedbackService) List(ctx context.Context, limit int) ([]models.Feedback, error) {
	rows, err := s.store.List(ctx, repository.ClampLimit(limit))
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return rows, nil
}

// Delete removes a record. Unknown ids succeed so repeated deletes are harmless.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}

	s.publish(ctx, models.FeedbackEvent{
		Type:      models.EventFeedbackDeleted,
		ID:        id,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// Ping checks that the store answers.
func (s *FeedbackService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *FeedbackService) publish(ctx context.Context, event models.FeedbackEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithField("event", event.Type).Warn("failed to publish feedback event")
	}
}

func (s *FeedbackService) checkRules(rules feedbackRules) error {
	err := s.validate.Struct(rules)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch {
	case fe.Field() == "Rating":
		return &ValidationError{Field: "rating", Message: msgRatingRange}
	case fe.Tag() == "max":
		return &ValidationError{Field: "message", Message: msgMessageLong}
	default:
		return &ValidationError{Field: "message", Message: msgMessageShort}
	}
}

// parseRating accepts any numeric text that denotes a whole number ("4", " 4 ", "4.0").
func parseRating(raw string) (int, error) {
	ratingErr := &ValidationError{Field: "rating", Message: msgRatingRange}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ratingErr
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, ratingErr
	}
	if f < models.MinRating || f > models.MaxRating {
		return 0, ratingErr
	}
	return int(f), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
