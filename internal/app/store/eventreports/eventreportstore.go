// internal/app/store/eventreports/eventreportstore.go
package eventreportstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/teamhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("event_reports")}
}

func (s *Store) Create(ctx context.Context, r models.EventReport) (models.EventReport, error) {
	r.ID = primitive.NewObjectID()

	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.EventReport{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EventReport, error) {
	var r models.EventReport
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, summary string, eventDate time.Time) (*models.EventReport, error) {
	set := bson.M{
		"title":      title,
		"summary":    summary,
		"event_date": eventDate,
		"updated_at": time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.EventReport
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetAttachment replaces the report's single attachment, returning the
// previous one so the caller can remove the old file from disk.
func (s *Store) SetAttachment(ctx context.Context, id primitive.ObjectID, file models.StoredFile) (*models.StoredFile, error) {
	prev, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"attachment": file,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return nil, err
	}
	return prev.Attachment, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns reports by event date descending with the total count.
func (s *Store) List(ctx context.Context, skip, limit int64) ([]models.EventReport, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "event_date", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reports := []models.EventReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
