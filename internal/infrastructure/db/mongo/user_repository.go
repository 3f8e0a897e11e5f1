package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventify/eventify-api/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Username       string               `bson:"username"`
	Email          string               `bson:"email"`
	PhotoURL       string               `bson:"photo_url,omitempty"`
	PasswordHash   string               `bson:"password_hash"`
	Salt           string               `bson:"salt"`
	Token          string               `bson:"token,omitempty"`
	TokenExpiresAt *time.Time           `bson:"token_expires_at,omitempty"`
	Followers      []primitive.ObjectID `bson:"followers"`
	Following      []primitive.ObjectID `bson:"following"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		Email:          d.Email,
		PhotoURL:       d.PhotoURL,
		PasswordHash:   d.PasswordHash,
		Salt:           d.Salt,
		SessionToken:   d.Token,
		TokenExpiresAt: d.TokenExpiresAt,
		Followers:      hexIDs(d.Followers),
		Following:      hexIDs(d.Following),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

// Create inserts a new user. The unique index on email turns a duplicate
// insert into domain.ErrEmailInUse.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := userDoc{
		Username:     user.Username,
		Email:        user.Email,
		PhotoURL:     user.PhotoURL,
		PasswordHash: user.PasswordHash,
		Salt:         user.Salt,
		Followers:    []primitive.ObjectID{},
		Following:    []primitive.ObjectID{},
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailInUse
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByToken looks the user up by exact session-token match. The token field
// is indexed so this behaves as a secondary key lookup.
func (r *UserRepository) FindByToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// UpdateSession stores the session token and expiry on the user, replacing any
// previous session in the same write.
func (r *UserRepository) UpdateSession(ctx context.Context, userID, token string, expiresAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"token": token, "token_expires_at": expiresAt, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ClearSessionByToken unsets the session fields on whichever user holds the
// token. No match is not an error, which makes logout idempotent.
func (r *UserRepository) ClearSessionByToken(ctx context.Context, token string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"token": token},
		bson.M{"$unset": bson.M{"token": "", "token_expires_at": ""}},
	)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Follow adds the edge to both documents using $addToSet, so repeated follows
// never duplicate entries.
func (r *UserRepository) Follow(ctx context.Context, followerID, targetID string) error {
	followerOID, targetOID, err := edgeIDs(followerID, targetID)
	if err != nil {
		return err
	}

	if _, err := r.col.UpdateOne(ctx,
		bson.M{"_id": followerOID},
		bson.M{"$addToSet": bson.M{"following": targetOID}},
	); err != nil {
		return fmt.Errorf("add following: %w", err)
	}
	if _, err := r.col.UpdateOne(ctx,
		bson.M{"_id": targetOID},
		bson.M{"$addToSet": bson.M{"followers": followerOID}},
	); err != nil {
		return fmt.Errorf("add follower: %w", err)
	}
	return nil
}

// Unfollow removes the edge from both documents with $pull.
func (r *UserRepository) Unfollow(ctx context.Context, followerID, targetID string) error {
	followerOID, targetOID, err := edgeIDs(followerID, targetID)
	if err != nil {
		return err
	}

	if _, err := r.col.UpdateOne(ctx,
		bson.M{"_id": followerOID},
		bson.M{"$pull": bson.M{"following": targetOID}},
	); err != nil {
		return fmt.Errorf("remove following: %w", err)
	}
	if _, err := r.col.UpdateOne(ctx,
		bson.M{"_id": targetOID},
		bson.M{"$pull": bson.M{"followers": followerOID}},
	); err != nil {
		return fmt.Errorf("remove follower: %w", err)
	}
	return nil
}

func edgeIDs(followerID, targetID string) (primitive.ObjectID, primitive.ObjectID, error) {
	followerOID, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrInvalidID
	}
	targetOID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrInvalidID
	}
	return followerOID, targetOID, nil
}

// EnsureIndexes creates the unique email index and the session-token index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
