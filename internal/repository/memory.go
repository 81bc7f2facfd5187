package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ishow/feedback-backend/internal/models"
)

type memoryRecord struct {
	seq      int64
	feedback models.Feedback
}

// MemoryStore keeps records in process memory. Used for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	seq     int64
	records []memoryRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// WithClock replaces the timestamp source.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Create(ctx context.Context, f *models.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f.ID = uuid.New().String()
	f.CreatedAt = s.now().UTC()
	s.seq++
	s.records = append(s.records, memoryRecord{seq: s.seq, feedback: *f})
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]models.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = ClampLimit(limit)

	s.mu.RLock()
	sorted := make([]memoryRecord, len(s.records))
	copy(sorted, s.records)
	s.mu.RUnlock()

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.feedback.CreatedAt.Equal(b.feedback.CreatedAt) {
			return a.feedback.CreatedAt.After(b.feedback.CreatedAt)
		}
		return a.seq > b.seq
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	rows := make([]models.Feedback, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, r.feedback)
	}
	return rows, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.feedback.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Len reports how many records are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close(context.Context) error { return nil }
