// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/teamhub/internal/domain/models"
)

var (
	// ErrDuplicateDay is returned when a second record for the same
	// (user, day) pair is inserted. The unique index is the real
	// enforcement; application code just translates the error.
	ErrDuplicateDay = errors.New("attendance already recorded for this day")
	errBadStatus    = errors.New(`status must be "present"|"absent"|"excused"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance")}
}

// Mark inserts an attendance record for the user's day. The date is
// truncated to midnight UTC so the unique (user_id, date) index has one
// bucket per calendar day.
func (s *Store) Mark(ctx context.Context, a models.Attendance) (models.Attendance, error) {
	if !models.ValidAttendanceStatus(a.Status) {
		return models.Attendance{}, errBadStatus
	}
	a.ID = primitive.NewObjectID()
	a.Date = models.AttendanceDay(a.Date)
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Attendance{}, ErrDuplicateDay
		}
		return models.Attendance{}, err
	}
	return a, nil
}

// Update changes the status/note of an existing day's record.
func (s *Store) Update(ctx context.Context, userID primitive.ObjectID, day time.Time, status, note string) (*models.Attendance, error) {
	if !models.ValidAttendanceStatus(status) {
		return nil, errBadStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Attendance
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "date": models.AttendanceDay(day)},
		bson.M{"$set": bson.M{"status": status, "note": note, "updated_at": time.Now().UTC()}},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListRange returns records in [from, to], optionally for one user,
// newest day first.
func (s *Store) ListRange(ctx context.Context, userID *primitive.ObjectID, from, to time.Time) ([]models.Attendance, error) {
	filter := bson.M{"date": bson.M{
		"$gte": models.AttendanceDay(from),
		"$lte": models.AttendanceDay(to),
	}}
	if userID != nil {
		filter["user_id"] = *userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.Attendance{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a record by ID. Returns the number of documents
// deleted (0 means not found).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// GetDay returns a user's record for one calendar day, or
// mongo.ErrNoDocuments.
func (s *Store) GetDay(ctx context.Context, userID primitive.ObjectID, day time.Time) (*models.Attendance, error) {
	var a models.Attendance
	err := s.c.FindOne(ctx, bson.M{
		"user_id": userID,
		"date":    models.AttendanceDay(day),
	}).Decode(&a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
