// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/teamhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Create validates invariants, normalizes progress, and inserts the
// project with an initial "created" activity entry.
func (s *Store) Create(ctx context.Context, p models.Project, actorName string) (models.Project, error) {
	if err := p.Validate(); err != nil {
		return models.Project{}, err
	}

	p.ID = primitive.NewObjectID()
	if p.Assignees == nil {
		p.Assignees = []models.Assignee{}
	}
	p.NormalizeProgress()
	p.AddActivity("created", p.CreatedBy, actorName, "created the project", nil)

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByID loads a project. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save replaces the document with the in-memory aggregate after
// re-checking invariants. Updates are load-mutate-save without a
// transaction; concurrent writers are last-write-wins, which is
// acceptable at the expected per-project write rate.
func (s *Store) Save(ctx context.Context, p *models.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.NormalizeProgress()
	p.UpdatedAt = time.Now().UTC()

	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	return err
}

// AddComment appends a comment (and its activity entry) to a project
// and persists the result. Returns the stored comment.
func (s *Store) AddComment(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID, userName, message string) (*models.Comment, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c := p.AddComment(userID, userName, message)
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete hard-deletes a project. The archive flow is the soft
// alternative; this removes the document outright.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List runs the access-scoped filter with sort and offset pagination,
// returning the page and the total match count.
func (s *Store) List(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Project, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Statistics summarizes the user's visible, non-archived projects.
type Statistics struct {
	Total        int64 `bson:"total" json:"total"`
	Todo         int64 `bson:"todo" json:"todo"`
	InProgress   int64 `bson:"in_progress" json:"inProgress"`
	Review       int64 `bson:"review" json:"review"`
	Done         int64 `bson:"done" json:"done"`
	Overdue      int64 `bson:"overdue" json:"overdue"`
	HighPriority int64 `bson:"high_priority" json:"highPriority"`
}

// GetStatistics runs one aggregation over the access-scoped projects,
// counting per status plus derived overdue and high-priority buckets.
// An empty result set yields zeroed statistics, never an error.
func (s *Store) GetStatistics(ctx context.Context, userID primitive.ObjectID, role string, now time.Time) (Statistics, error) {
	countWhere := func(cond bson.M) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: projectpolicy.StatsMatch(userID, role)}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"total":       bson.M{"$sum": 1},
			"todo":        countWhere(bson.M{"$eq": bson.A{"$status", models.StatusTodo}}),
			"in_progress": countWhere(bson.M{"$eq": bson.A{"$status", models.StatusInProgress}}),
			"review":      countWhere(bson.M{"$eq": bson.A{"$status", models.StatusReview}}),
			"done":        countWhere(bson.M{"$eq": bson.A{"$status", models.StatusDone}}),
			"overdue": countWhere(bson.M{"$and": bson.A{
				bson.M{"$ne": bson.A{"$status", models.StatusDone}},
				bson.M{"$lt": bson.A{"$due_date", now}},
			}}),
			"high_priority": countWhere(bson.M{"$eq": bson.A{"$priority", models.PriorityHigh}}),
		}}},
	}

	cursor, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Statistics{}, err
	}
	defer cursor.Close(ctx)

	var results []Statistics
	if err := cursor.All(ctx, &results); err != nil {
		return Statistics{}, err
	}
	if len(results) == 0 {
		return Statistics{}, nil
	}
	return results[0], nil
}
