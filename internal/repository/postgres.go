package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ishow/feedback-backend/internal/models"
)

// PostgresStore keeps feedback in the feedbacks table created by database.InitPostgresTables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, f *models.Feedback) error {
	id := uuid.New()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO feedbacks (id, name, item, rating, message, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, id, f.Name, f.Item, f.Rating, f.Message, f.ImageURL).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	f.ID = id.String()
	f.CreatedAt = f.CreatedAt.UTC()
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, item, rating, message, image_url, created_at
		FROM feedbacks
		ORDER BY created_at DESC, seq DESC
		LIMIT $1
	`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query feedbacks: %w", err)
	}
	defer rows.Close()

	feedbacks := make([]models.Feedback, 0)
	for rows.Next() {
		var (
			f                    models.Feedback
			name, item, imageURL sql.NullString
		)
		if err := rows.Scan(&f.ID, &name, &item, &f.Rating, &f.Message, &imageURL, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		f.Name = nullableString(name)
		f.Item = nullableString(item)
		f.ImageURL = nullableString(imageURL)
		f.CreatedAt = f.CreatedAt.UTC()
		feedbacks = append(feedbacks, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedbacks: %w", err)
	}
	return feedbacks, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM feedbacks WHERE id = $1`, parsedID)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
