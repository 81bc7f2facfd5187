package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ishow/feedback-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// FeedChannel is the Redis Pub/Sub channel shared by all API instances.
	FeedChannel = "feedback:events"

	subscriberBuffer = 16
)

// FeedbackFeed fans feedback events out to connected admin dashboards.
// Without Redis, events stay inside this process.
type FeedbackFeed struct {
	mu          sync.RWMutex
	subscribers map[chan models.FeedbackEvent]struct{}
	client      *redis.Client
	log         logrus.FieldLogger
}

func NewFeedbackFeed(client *redis.Client, log logrus.FieldLogger) *FeedbackFeed {
	return &FeedbackFeed{
		subscribers: make(map[chan models.FeedbackEvent]struct{}),
		client:      client,
		log:         log,
	}
}

// Subscribe registers a listener. Call the returned func to stop receiving; it closes the channel.
func (f *FeedbackFeed) Subscribe() (<-chan models.FeedbackEvent, func()) {
	ch := make(chan models.FeedbackEvent, subscriberBuffer)
	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Publish sends the event through Redis when configured, otherwise straight to local subscribers.
func (f *FeedbackFeed) Publish(ctx context.Context, event models.FeedbackEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if f.client == nil {
		f.fanOut(event)
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, FeedChannel, data).Err()
}

// fanOut never blocks: a subscriber whose buffer is full misses the event.
func (f *FeedbackFeed) fanOut(event models.FeedbackEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subscribers {
		select {
		case ch <- event:
		default:
			f.log.WithField("event", event.Type).Debug("dropping feed event for slow subscriber")
		}
	}
}

// Run relays Redis messages to local subscribers until ctx is done. Returns at once without Redis.
func (f *FeedbackFeed) Run(ctx context.Context) {
	if f.client == nil {
		return
	}

	backoff := time.Second
	for ctx.Err() == nil {
		err := f.relay(ctx)
		if ctx.Err() != nil {
			return
		}
		f.log.WithError(err).WithField("retry_in", backoff.String()).Warn("feed subscriber disconnected")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}
}

func (f *FeedbackFeed) relay(ctx context.Context) error {
	pubsub := f.client.Subscribe(ctx, FeedChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	f.log.WithField("channel", FeedChannel).Info("feed subscriber started")

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}
		var event models.FeedbackEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			f.log.WithError(err).Warn("failed to unmarshal feed event")
			continue
		}
		f.fanOut(event)
	}
}
