// internal/app/store/papers/paperstore.go
package paperstore

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
	return &Store{c: db.Collection("papers")}
}

func (s *Store) Create(ctx context.Context, p models.Paper) (models.Paper, error) {
	p.ID = primitive.NewObjectID()
	if p.Authors == nil {
		p.Authors = []string{}
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Paper{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Paper, error) {
	var p models.Paper
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the editable metadata fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, abstract string, authors []string, venue string, year int) (*models.Paper, error) {
	set := bson.M{
		"title":      title,
		"abstract":   abstract,
		"authors":    authors,
		"venue":      venue,
		"year":       year,
		"updated_at": time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Paper
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetAttachment replaces the paper's single attachment. Returns the
// previous attachment, if any, so the handler can delete the old file.
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

// List returns papers by year descending, optionally filtered to one
// year, with the total match count.
func (s *Store) List(ctx context.Context, year int, skip, limit int64) ([]models.Paper, int64, error) {
	filter := bson.M{}
	if year != 0 {
		filter["year"] = year
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "year", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	papers := []models.Paper{}
	if err := cursor.All(ctx, &papers); err != nil {
		return nil, 0, err
	}
	return papers, total, nil
}
