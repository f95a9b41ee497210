// internal/app/store/roles/rolestore.go
package rolestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/teamhub/internal/app/system/normalize"
	"github.com/dalemusser/teamhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when the email already has a role
	// directory entry.
	ErrDuplicateEmail = errors.New("this email already has a role entry")
	errBadRole        = errors.New(`role must be "admin"|"spoc"|"member"`)
)

// Store manages the role directory (the sign-in allowlist).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roles")}
}

// GetByEmail looks up the role entry for a normalized email. Returns
// mongo.ErrNoDocuments if the email is not in the directory.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Role, error) {
	var role models.Role
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&role); err != nil {
		return nil, err
	}
	return &role, nil
}

// Create inserts a role directory entry after normalizing and
// validating fields.
func (s *Store) Create(ctx context.Context, role models.Role) (models.Role, error) {
	role.ID = primitive.NewObjectID()
	role.Email = normalize.Email(role.Email)
	role.Role = normalize.Role(role.Role)
	if !models.ValidRole(role.Role) {
		return models.Role{}, errBadRole
	}
	if role.AssignedAt.IsZero() {
		role.AssignedAt = time.Now().UTC()
	}

	if _, err := s.c.InsertOne(ctx, role); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Role{}, ErrDuplicateEmail
		}
		return models.Role{}, err
	}
	return role, nil
}

// Update changes the role and batch of an existing entry. The email is
// immutable; removing and re-adding is the way to reassign an address.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, role string, batch int) (*models.Role, error) {
	role = normalize.Role(role)
	if !models.ValidRole(role) {
		return nil, errBadRole
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Role
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "batch": batch}},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a role entry. Returns the deleted entry so callers can
// deactivate the matching user account.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	var deleted models.Role
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// List returns directory entries, optionally filtered by role and
// batch, sorted by email. Zero batch means no batch filter.
func (s *Store) List(ctx context.Context, role string, batch int) ([]models.Role, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = normalize.Role(role)
	}
	if batch != 0 {
		filter["batch"] = batch
	}

	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []models.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// KnownEmails returns every email in the directory. Only used by the
// debug-mode 403 diagnostic.
func (s *Store) KnownEmails(ctx context.Context) ([]string, error) {
	cursor, err := s.c.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"email": 1}).SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Email string `bson:"email"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(docs))
	for _, d := range docs {
		emails = append(emails, d.Email)
	}
	return emails, nil
}
