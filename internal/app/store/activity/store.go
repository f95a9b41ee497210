// internal/app/store/activity/store.go
package activity

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event types for the org-wide activity feed. The embedded per-project
// activity log is separate; this collection powers the dashboard feed
// across projects.
const (
	EventProjectCreated  = "project_created"
	EventProjectUpdated  = "project_updated"
	EventProjectArchived = "project_archived"
	EventCommentAdded    = "comment_added"
	EventBlogPublished   = "blog_published"
	EventMeetingLogged   = "meeting_logged"
)

// Event is one feed entry.
type Event struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID   *primitive.ObjectID `bson:"project_id,omitempty" json:"projectId,omitempty"`
	UserID      primitive.ObjectID  `bson:"user_id" json:"userId"`
	UserName    string              `bson:"user_name" json:"userName"`
	EventType   string              `bson:"event_type" json:"eventType"`
	Description string              `bson:"description" json:"description"`
	Timestamp   time.Time           `bson:"timestamp" json:"timestamp"`
	Metadata    map[string]string   `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Store manages the activity collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity")}
}

// Create records a feed entry.
func (s *Store) Create(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Record is the one-line convenience used by handlers. Failures here
// are the caller's to log and swallow; the feed is best effort.
func (s *Store) Record(ctx context.Context, eventType string, userID primitive.ObjectID, userName, description string, projectID *primitive.ObjectID) error {
	return s.Create(ctx, Event{
		ProjectID:   projectID,
		UserID:      userID,
		UserName:    userName,
		EventType:   eventType,
		Description: description,
	})
}

// ListRecent returns the newest feed entries.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListByProject returns the newest feed entries for one project.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID, limit int64) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
