package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/craftmarket/auth-api/internal/core/domain"
)

const tokenCollection = "refresh_tokens"

type MongoRefreshTokenRepository struct {
	coll *mongo.Collection
}

func NewRefreshTokenRepository(db *mongo.Database) *MongoRefreshTokenRepository {
	return &MongoRefreshTokenRepository{coll: db.Collection(tokenCollection)}
}

type mongoRefreshToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	MemberID  int64              `bson:"member_id"`
	Token     string             `bson:"token"`
	ExpiresAt int64              `bson:"expires_at"`
	Revoked   bool               `bson:"revoked"`
	CreatedAt int64              `bson:"created_at"`
}

// EnsureIndexes creates the unique token index (token values are globally
// unique across all members) and a member_id index for the bulk delete on
// logout. Call once at startup.
func (r *MongoRefreshTokenRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "member_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create refresh token indexes: %w", err)
	}
	return nil
}

func (r *MongoRefreshTokenRepository) Save(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	doc := mongoRefreshToken{
		MemberID:  token.MemberID,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.Unix(),
		Revoked:   token.Revoked,
		CreatedAt: token.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert refresh token: %w", err)
	}

	saved := *token
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		saved.ID = oid.Hex()
	}
	return &saved, nil
}

func (r *MongoRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *MongoRefreshTokenRepository) FindByMemberAndToken(ctx context.Context, memberID int64, token string) (*domain.RefreshToken, error) {
	return r.findOne(ctx, bson.M{"member_id": memberID, "token": token})
}

// Revoke performs a conditional update: only a record that is still
// unrevoked matches the filter. ModifiedCount tells the caller whether this
// call won the transition — a zero count on an existing record means the
// token was already rotated, which the service treats as reuse.
func (r *MongoRefreshTokenRepository) Revoke(ctx context.Context, token string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"token": token, "revoked": false},
		bson.M{"$set": bson.M{"revoked": true}},
	)
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoRefreshTokenRepository) DeleteByMember(ctx context.Context, memberID int64) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"member_id": memberID}); err != nil {
		return fmt.Errorf("delete refresh tokens: %w", err)
	}
	return nil
}

func (r *MongoRefreshTokenRepository) findOne(ctx context.Context, filter bson.M) (*domain.RefreshToken, error) {
	var mt mongoRefreshToken
	if err := r.coll.FindOne(ctx, filter).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &domain.RefreshToken{
		ID:        mt.ID.Hex(),
		MemberID:  mt.MemberID,
		Token:     mt.Token,
		ExpiresAt: time.Unix(mt.ExpiresAt, 0).UTC(),
		Revoked:   mt.Revoked,
		CreatedAt: time.Unix(mt.CreatedAt, 0).UTC(),
	}, nil
}
