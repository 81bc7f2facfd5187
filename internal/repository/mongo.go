package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ishow/feedback-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type feedbackDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      *string            `bson:"name"`
	Item      *string            `bson:"item"`
	Rating    int                `bson:"rating"`
	Message   string             `bson:"message"`
	ImageURL  *string            `bson:"image_url"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d feedbackDocument) toModel() models.Feedback {
	return models.Feedback{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Item:      d.Item,
		Rating:    d.Rating,
		Message:   d.Message,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// MongoStore keeps feedback in the "feedbacks" collection keyed by ObjectID, sorted on createdAt.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStore(client *mongo.Client, db *mongo.Database) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: db.Collection(feedbackCollection),
	}
}

// EnsureIndexes creates the index backing the newest-first listing.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("createdAt_-1__id_-1"),
	})
	return err
}

func (s *MongoStore) Create(ctx context.Context, f *models.Feedback) error {
	doc := feedbackDocument{
		ID:       primitive.NewObjectID(),
		Name:     f.Name,
		Item:     f.Item,
		Rating:   f.Rating,
		Message:  f.Message,
		ImageURL: f.ImageURL,
		// BSON dates carry millisecond precision
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	f.ID = doc.ID.Hex()
	f.CreatedAt = doc.CreatedAt
	return nil
}

// List sorts by createdAt then _id; ObjectIDs grow with insertion so equal timestamps keep insertion order.
func (s *MongoStore) List(ctx context.Context, limit int) ([]models.Feedback, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(ClampLimit(limit)))

	cursor, err := s.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find feedbacks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []feedbackDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode feedbacks: %w", err)
	}

	rows := make([]models.Feedback, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, d.toModel())
	}
	return rows, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}
