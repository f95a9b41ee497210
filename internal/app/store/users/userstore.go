// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/normalize"
	"github.com/dalemusser/teamhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEmail is returned when creating a user whose email is
// already taken.
var ErrDuplicateEmail = errors.New("a user with this email already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FetchByEmail resolves an email to the middleware's user shape. A
// missing or deactivated account returns (nil, nil) so bearer
// resolution can fall through to anonymous.
func (s *Store) FetchByEmail(ctx context.Context, email string) (*auth.AuthUser, error) {
	u, err := s.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, nil
	}
	return &auth.AuthUser{
		ID:    u.ID.Hex(),
		Name:  u.DisplayName,
		Email: u.Email,
		Role:  u.Role,
	}, nil
}

// Create inserts a new user after normalizing fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.DisplayName = normalize.Name(u.DisplayName)
	u.IsActive = true

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// LoginRefresh is applied to a user record on every successful sign-in:
// profile fields from the IdP plus the authoritative role snapshot.
type LoginRefresh struct {
	UID         string
	DisplayName string
	PhotoURL    string
	Role        string
}

// UpsertOnLogin creates the user record on first sign-in or refreshes
// it on subsequent ones, stamping last_login_at either way. Returns the
// post-update document.
func (s *Store) UpsertOnLogin(ctx context.Context, email, provider string, refresh LoginRefresh) (*models.User, error) {
	now := time.Now().UTC()
	set := bson.M{
		"role":          refresh.Role,
		"last_login_at": now,
		"updated_at":    now,
	}
	if refresh.UID != "" {
		set["uid"] = refresh.UID
	}
	if refresh.DisplayName != "" {
		set["display_name"] = normalize.Name(refresh.DisplayName)
	}
	if refresh.PhotoURL != "" {
		set["photo_url"] = refresh.PhotoURL
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{
			"$set": set,
			"$setOnInsert": bson.M{
				"email":         normalize.Email(email),
				"auth_provider": provider,
				"is_active":     true,
				"created_at":    now,
			},
		},
		opts,
	).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ProfileUpdate holds the self-service editable fields.
type ProfileUpdate struct {
	DisplayName string
	PhotoURL    string
}

// UpdateProfile applies a self-service profile edit.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	set := bson.M{
		"display_name": normalize.Name(upd.DisplayName),
		"updated_at":   time.Now().UTC(),
	}
	if upd.PhotoURL != "" {
		set["photo_url"] = upd.PhotoURL
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetLastLogin stamps last_login_at and refreshes the role snapshot.
func (s *Store) SetLastLogin(ctx context.Context, id primitive.ObjectID, role string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":          role,
		"last_login_at": now,
		"updated_at":    now,
	}})
	return err
}

// ListTeamMembers returns active users, optionally filtered by role,
// sorted by display name. Used by the assignment pickers.
func (s *Store) ListTeamMembers(ctx context.Context, role string) ([]models.User, error) {
	filter := bson.M{"is_active": true}
	if role != "" {
		filter["role"] = role
	}

	opts := options.Find().SetSort(bson.D{{Key: "display_name", Value: 1}})
	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeactivateByEmail deactivates whichever user owns the email, if any.
// The record is kept so audit history and denormalized assignee
// snapshots stay resolvable.
func (s *Store) DeactivateByEmail(ctx context.Context, email string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"email": normalize.Email(email)}, bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	}})
	return err
}
